package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle status of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusRejected  OrderStatus = "REJECTED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// OrderSourceSite marks orders created through the public checkout.
const OrderSourceSite = "SITE"

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusRejected, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is a purchase intent. UserID is nil for guest checkout; BuyerEmail is
// always set.
type Order struct {
	ID            uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        *uuid.UUID  `gorm:"type:uuid;index" json:"userId"`
	BuyerName     string      `gorm:"type:varchar(200);not null" json:"buyerName"`
	BuyerEmail    string      `gorm:"type:varchar(255);not null" json:"buyerEmail"`
	CourseID      uuid.UUID   `gorm:"type:uuid;not null;index" json:"courseId"`
	Status        OrderStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Source        string      `gorm:"type:varchar(20);not null;default:'SITE'" json:"source"`
	PaymentMethod *string     `gorm:"type:varchar(32)" json:"paymentMethod"`
	Notes         *string     `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time   `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt     time.Time   `gorm:"autoUpdateTime" json:"updatedAt"`

	User     *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Course   Course    `gorm:"foreignKey:CourseID" json:"course"`
	Payments []Payment `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"payments"`
}

// CreatedOrder is the trimmed response of POST /orders.
type CreatedOrder struct {
	ID     uuid.UUID   `json:"id"`
	Status OrderStatus `json:"status"`
}
