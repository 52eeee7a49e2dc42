package repository

import (
	"context"
	"time"

	"academy-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiry time.Time) error
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	ResetPassword(ctx context.Context, id uuid.UUID, tokenHash, passwordHash string, now time.Time) error
	ListStudentsWithPaidOrders(ctx context.Context) ([]models.User, error)
}

// GormUserRepository implements UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository.
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SetResetToken stores the hash of a freshly issued reset token.
func (r *GormUserRepository) SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiry time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"reset_token_hash":   tokenHash,
			"reset_token_expiry": expiry,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByResetToken returns the user holding tokenHash if it has not expired.
func (r *GormUserRepository) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("reset_token_hash = ? AND reset_token_expiry > ?", tokenHash, now).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ResetPassword swaps the password and clears the reset token in a single
// conditional UPDATE. It fails with gorm.ErrRecordNotFound when the token was
// consumed or expired in the meantime.
func (r *GormUserRepository) ResetPassword(ctx context.Context, id uuid.UUID, tokenHash, passwordHash string, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).
			Where("id = ? AND reset_token_hash = ? AND reset_token_expiry > ?", id, tokenHash, now).
			Updates(map[string]any{
				"password_hash":      passwordHash,
				"reset_token_hash":   nil,
				"reset_token_expiry": nil,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ListStudentsWithPaidOrders loads every student, newest first, with their
// PAID orders, course and payments preloaded.
func (r *GormUserRepository) ListStudentsWithPaidOrders(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("role = ?", models.RoleStudent).
		Preload("Orders", "status = ?", models.OrderStatusPaid).
		Preload("Orders.Course").
		Preload("Orders.Payments").
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
