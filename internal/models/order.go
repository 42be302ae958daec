package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Status is the payment/fulfillment state of a reservation. Store staff may
// move an order from any status to any other one (mistakes get corrected at
// the counter), so there is no transition table here; safe application of a
// change lives in services.StatusService.
type Status string

const (
	StatusUnpaid         Status = "a"
	StatusOnlineReserved Status = "b"
	StatusPaidInStore    Status = "c"
	StatusHandedOver     Status = "d"
	StatusCancelled      Status = "e"
)

// AllStatuses lists every status in display order.
var AllStatuses = []Status{
	StatusUnpaid,
	StatusOnlineReserved,
	StatusPaidInStore,
	StatusHandedOver,
	StatusCancelled,
}

var statusLabels = map[Status]string{
	StatusUnpaid:         "未入金",
	StatusOnlineReserved: "オンライン予約",
	StatusPaidInStore:    "店頭支払い済",
	StatusHandedOver:     "お渡し済",
	StatusCancelled:      "キャンセル",
}

// Label returns the Japanese display label for the status.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Valid reports whether s is one of the five defined statuses.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

type Order struct {
	ID         uint           `json:"id_order" gorm:"primaryKey"`
	FirstName  string         `json:"first_name" gorm:"not null"`
	LastName   string         `json:"last_name" gorm:"not null"`
	Tel        string         `json:"tel"`
	Email      string         `json:"email"`
	Message    string         `json:"message" gorm:"type:text"`
	Date       string         `json:"date" gorm:"not null"` // pickup date, ISO form (2006-01-02)
	PickupHour string         `json:"pickupHour" gorm:"not null"`
	Status     Status         `json:"status" gorm:"type:varchar(1);default:'a'"`
	Cakes      []OrderLine    `json:"cakes" gorm:"foreignKey:OrderID"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// DisplayID is the reception number shown to customers, zero-padded to 4 digits.
func (o *Order) DisplayID() string {
	return fmt.Sprintf("%04d", o.ID)
}

// CustomerName joins first and last name for display.
func (o *Order) CustomerName() string {
	return o.FirstName + " " + o.LastName
}

// Total is the order value in yen, summed from its lines.
func (o *Order) Total() int {
	total := 0
	for _, line := range o.Cakes {
		total += line.Price * line.Amount
	}
	return total
}
