package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus of a settlement attempt. Only PENDING_REVIEW is produced by
// receipt uploads; the other values are set by back-office tooling.
type PaymentStatus string

const (
	PaymentStatusPendingReview PaymentStatus = "PENDING_REVIEW"
	PaymentStatusApproved      PaymentStatus = "APPROVED"
	PaymentStatusRejected      PaymentStatus = "REJECTED"
)

// Payment is a settlement record evidenced by an uploaded receipt.
type Payment struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"orderId"`
	Method     string          `gorm:"type:varchar(32);not null" json:"method"`
	Amount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency   string          `gorm:"type:varchar(3);not null" json:"currency"`
	Status     PaymentStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	ReceiptURL string          `gorm:"type:varchar(1024)" json:"receiptUrl"`
	ReceiptKey string          `gorm:"type:varchar(512)" json:"-"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}
