package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Role is the authorization role carried in the access token.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleAdmin   Role = "ADMIN"
)

// User model
type User struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email            string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash     string         `gorm:"not null" json:"-"`
	Name             string         `gorm:"type:varchar(100);not null" json:"name"`
	Lastname         string         `gorm:"type:varchar(100)" json:"lastname"`
	Role             Role           `gorm:"type:varchar(20);not null;default:'STUDENT'" json:"role"`
	Age              *int           `json:"age,omitempty"`
	Telegram         *string        `gorm:"type:varchar(100)" json:"telegram,omitempty"`
	Masters          pq.StringArray `gorm:"type:text[]" json:"masters"`
	ResetTokenHash   *string        `gorm:"type:varchar(64);index" json:"-"`
	ResetTokenExpiry *time.Time     `json:"-"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`

	Orders []Order `gorm:"foreignKey:UserID" json:"orders,omitempty"`
}

// PublicProfile is the subset of a user returned by GET /auth/me.
type PublicProfile struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  Role      `json:"role"`
}

func (u *User) Profile() PublicProfile {
	return PublicProfile{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// FullName joins name and lastname, skipping an empty lastname.
func (u *User) FullName() string {
	if u.Lastname == "" {
		return u.Name
	}
	return u.Name + " " + u.Lastname
}
