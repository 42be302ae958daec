package models

import (
	"time"

	"gorm.io/gorm"
)

// Cake is a catalog entry customers can reserve.
type Cake struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"unique;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Image       string         `json:"image"`
	Sizes       []CakeSize     `json:"sizes" gorm:"foreignKey:CakeID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// CakeSize is one purchasable size of a cake with its yen price and the
// remaining stock. Stock 0 renders as 完売 (sold out) in the catalog.
type CakeSize struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CakeID    uint           `json:"cake_id" gorm:"not null;index"`
	Size      string         `json:"size" gorm:"not null"`
	Price     int            `json:"price" gorm:"not null"`
	Stock     int            `json:"stock" gorm:"not null;default:0"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// SoldOut reports whether the size can no longer be reserved.
func (s *CakeSize) SoldOut() bool {
	return s.Stock <= 0
}
