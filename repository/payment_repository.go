package repository

import (
	"context"
	"errors"

	"academy-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentRepository defines the interface for payment data access.
type PaymentRepository interface {
	SavePendingReview(ctx context.Context, orderID uuid.UUID, payment *models.Payment) (created bool, err error)
}

// GormPaymentRepository implements PaymentRepository using GORM.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository.
func NewGormPaymentRepository(db *gorm.DB) PaymentRepository {
	return &GormPaymentRepository{db: db}
}

// SavePendingReview records a receipt for the order. The order row is locked
// for the duration of the transaction so concurrent uploads serialize: an
// existing PENDING_REVIEW payment is updated in place, otherwise a new one is
// inserted. payment is filled with the stored row.
func (r *GormPaymentRepository) SavePendingReview(ctx context.Context, orderID uuid.UUID, payment *models.Payment) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", orderID).
			First(&order).Error; err != nil {
			return err
		}

		var existing models.Payment
		err := tx.Where("order_id = ? AND status = ?", orderID, models.PaymentStatusPendingReview).
			Order("created_at ASC").
			First(&existing).Error
		switch {
		case err == nil:
			existing.Method = payment.Method
			existing.Amount = payment.Amount
			existing.Currency = payment.Currency
			existing.ReceiptURL = payment.ReceiptURL
			existing.ReceiptKey = payment.ReceiptKey
			if err := tx.Model(&existing).
				Select("method", "amount", "currency", "receipt_url", "receipt_key", "updated_at").
				Updates(&existing).Error; err != nil {
				return err
			}
			*payment = existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			payment.OrderID = orderID
			payment.Status = models.PaymentStatusPendingReview
			if err := tx.Create(payment).Error; err != nil {
				return err
			}
			created = true
			return nil
		default:
			return err
		}
	})
	return created, err
}
