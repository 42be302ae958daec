package repository

import (
	"strings"

	"github.com/yoshimitsut/christmascake-beurre-mou/internal/models"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetAll() ([]models.Order, error)
	Search(term string) ([]models.Order, error)
	UpdateStatus(id uint, status models.Status) error
	Replace(order *models.Order) error
	Delete(id uint) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Cakes").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Cakes").Order("id").Find(&orders).Error
	return orders, err
}

// Search matches the term against customer name, phone number and the
// reception number (as typed, with or without zero padding).
func (r *orderRepository) Search(term string) ([]models.Order, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return r.GetAll()
	}

	pattern := "%" + term + "%"
	numeric := strings.TrimLeft(term, "0")

	var orders []models.Order
	err := r.db.Preload("Cakes").
		Where("first_name ILIKE ? OR last_name ILIKE ? OR tel LIKE ? OR CAST(id AS TEXT) LIKE ?",
			pattern, pattern, pattern, "%"+numeric+"%").
		Order("id").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) UpdateStatus(id uint, status models.Status) error {
	result := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Replace overwrites the whole record including its lines. The edit form
// sends the full order back, so lines are swapped out rather than merged.
func (r *orderRepository) Replace(order *models.Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderLine{}).Error; err != nil {
			return err
		}
		for i := range order.Cakes {
			order.Cakes[i].ID = 0
			order.Cakes[i].OrderID = order.ID
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error
	})
}

func (r *orderRepository) Delete(id uint) error {
	return r.db.Delete(&models.Order{}, id).Error
}
