package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Course is a catalog entry. Prices are in the course currency; PriceUSD is
// only set for courses that can be settled through USD methods.
type Course struct {
	ID        uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Slug      string              `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	Title     string              `gorm:"type:varchar(200);not null" json:"title"`
	ShortDesc string              `gorm:"type:text" json:"shortDesc"`
	Price     decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"price"`
	PriceUSD  decimal.NullDecimal `gorm:"column:price_usd;type:numeric(12,2)" json:"priceUsd"`
	Currency  string              `gorm:"type:varchar(3);not null;default:'ARS'" json:"currency"`
	IsActive  bool                `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time           `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time           `gorm:"autoUpdateTime" json:"updatedAt"`
}
