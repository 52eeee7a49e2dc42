package database

import (
	"context"
	"fmt"
	"strings"

	"academy-service/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedOptions configures the bootstrap admin account.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
}

// Catalog is the course list inserted by Seed.
var Catalog = []models.Course{
	{
		Slug:      "fansly-master",
		Title:     "Fansly Master",
		ShortDesc: "Algoritmo interno y ventas",
		Price:     decimal.NewFromInt(85000),
		Currency:  "ARS",
		IsActive:  true,
	},
	{
		Slug:      "fetichista-master",
		Title:     "Fetichista Master",
		ShortDesc: "Nicho + DM + catálogo",
		Price:     decimal.NewFromInt(120000),
		Currency:  "ARS",
		IsActive:  true,
	},
}

// Seed inserts the admin user and the catalog. Existing rows are left
// untouched so it is safe to run on every start. The admin email is stored
// lower-cased, matching how login looks accounts up.
func Seed(ctx context.Context, db *gorm.DB, opts SeedOptions, logger *zap.Logger) error {
	opts.AdminEmail = strings.ToLower(strings.TrimSpace(opts.AdminEmail))
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.AdminEmail != "" && opts.AdminPassword != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash admin password: %w", err)
			}
			admin := models.User{
				Email:        opts.AdminEmail,
				PasswordHash: string(hash),
				Name:         "Admin",
				Role:         models.RoleAdmin,
				Masters:      []string{},
			}
			res := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).Create(&admin)
			if res.Error != nil {
				return fmt.Errorf("seed admin: %w", res.Error)
			}
			if res.RowsAffected > 0 {
				logger.Info("Seeded admin user", zap.String("email", opts.AdminEmail))
			}
		} else {
			logger.Warn("ADMIN_PASSWORD not set, skipping admin seed")
		}

		for _, c := range Catalog {
			course := c
			res := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).Create(&course)
			if res.Error != nil {
				return fmt.Errorf("seed course %s: %w", c.Slug, res.Error)
			}
			if res.RowsAffected > 0 {
				logger.Info("Seeded course", zap.String("slug", c.Slug))
			}
		}
		return nil
	})
}
