package database

import (
	"errors"
	"fmt"
	"time"

	"academy-service/models"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the GORM connection pool and stores it in DB.
func Connect(dsn string, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	logger.Info("Connected to PostgreSQL")
	DB = db
	return db, nil
}

// RunMigrations applies every pending versioned migration found at source
// (a golang-migrate source URL such as file://migrations).
func RunMigrations(source, databaseURL string, logger *zap.Logger) error {
	m, err := migrate.New(source, databaseURL)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.Info("Migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// IsDirty reports whether err comes from a migration that failed half way.
func IsDirty(err error) bool {
	var dirty migrate.ErrDirty
	return errors.As(err, &dirty)
}

// pendingReviewIndexSQL allows at most one payment awaiting review per order.
const pendingReviewIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS uq_payments_order_pending_review
    ON payments (order_id) WHERE status = 'PENDING_REVIEW'`

// AutoMigrate syncs the schema from the models. Used in development when the
// migrations directory is not shipped.
func AutoMigrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return err
	}
	if err := db.AutoMigrate(&models.User{}, &models.Course{}, &models.Order{}, &models.Payment{}); err != nil {
		return err
	}
	return ensurePendingReviewIndex(db)
}

func ensurePendingReviewIndex(db *gorm.DB) error {
	if err := db.Exec(pendingReviewIndexSQL).Error; err != nil {
		return fmt.Errorf("create pending review index: %w", err)
	}
	return nil
}

// Close releases the pool held in DB.
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
