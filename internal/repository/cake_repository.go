package repository

import (
	"github.com/yoshimitsut/christmascake-beurre-mou/internal/models"

	"gorm.io/gorm"
)

type CakeRepository interface {
	Create(cake *models.Cake) error
	GetByID(id uint) (*models.Cake, error)
	GetByName(name string) (*models.Cake, error)
	GetAll() ([]models.Cake, error)
	UpdateSizeStock(sizeID uint, stock int) error
}

type cakeRepository struct {
	db *gorm.DB
}

func NewCakeRepository(db *gorm.DB) CakeRepository {
	return &cakeRepository{db: db}
}

func (r *cakeRepository) Create(cake *models.Cake) error {
	return r.db.Create(cake).Error
}

func (r *cakeRepository) GetByID(id uint) (*models.Cake, error) {
	var cake models.Cake
	err := r.db.Preload("Sizes").First(&cake, id).Error
	if err != nil {
		return nil, err
	}
	return &cake, nil
}

func (r *cakeRepository) GetByName(name string) (*models.Cake, error) {
	var cake models.Cake
	err := r.db.Preload("Sizes").Where("name = ?", name).First(&cake).Error
	if err != nil {
		return nil, err
	}
	return &cake, nil
}

func (r *cakeRepository) GetAll() ([]models.Cake, error) {
	var cakes []models.Cake
	err := r.db.Preload("Sizes").Order("id").Find(&cakes).Error
	return cakes, err
}

func (r *cakeRepository) UpdateSizeStock(sizeID uint, stock int) error {
	return r.db.Model(&models.CakeSize{}).Where("id = ?", sizeID).Update("stock", stock).Error
}
