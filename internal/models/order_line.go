package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderLine is one cake/size/quantity entry within an order. Price is in yen
// (no decimals). Stock is the inventory count captured when the reservation
// was placed; it is a reporting snapshot, not a live counter.
type OrderLine struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	OrderID   uint           `json:"order_id" gorm:"not null;index"`
	CakeID    uint           `json:"cake_id" gorm:"not null"`
	Name      string         `json:"name" gorm:"not null"`
	Size      string         `json:"size"`
	Price     int            `json:"price" gorm:"not null"`
	Amount    int            `json:"amount" gorm:"not null;check:amount > 0"`
	Stock     int            `json:"stock"`
	Message   string         `json:"message" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
