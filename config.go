package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	aws_pkg "academy-service/pkg/aws"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config holds all configuration for the academy service.
type Config struct {
	Env            string        `env:"APP_ENV" env-default:"development"`
	Port           string        `env:"PORT" env-default:"8080"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000,http://localhost:5173"`
	FrontendURL    string        `env:"FRONTEND_URL" env-default:"http://localhost:3000"`
	JWTSecret      string        `env:"JWT_SECRET"`
	JWTTTL         time.Duration `env:"JWT_TTL" env-default:"168h"`

	PostgresUser     string `env:"POSTGRES_USER"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresDB       string `env:"POSTGRES_DB"`
	PostgresHost     string `env:"POSTGRES_HOST" env-default:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT" env-default:"5432"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" env-default:"disable"`
	PostgresTimeZone string `env:"POSTGRES_TIMEZONE" env-default:"America/Argentina/Buenos_Aires"`
	MigrationsPath   string `env:"MIGRATIONS_PATH" env-default:"file://migrations"`

	SeedOnStart   bool   `env:"SEED_ON_START" env-default:"false"`
	AdminEmail    string `env:"ADMIN_EMAIL" env-default:"admin@academy.local"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	ReceiptStorage       string `env:"RECEIPT_STORAGE" env-default:"local"`
	ReceiptLocalDir      string `env:"RECEIPT_LOCAL_DIR" env-default:"./uploads/receipts"`
	ReceiptPublicBaseURL string `env:"RECEIPT_PUBLIC_BASE_URL" env-default:"http://localhost:8080/uploads/receipts"`

	AWSRegion       string `env:"AWS_REGION" env-default:"us-east-1"`
	AWSEndpoint     string `env:"AWS_ENDPOINT"`
	AWSAccessKeyID  string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey    string `env:"AWS_SECRET_ACCESS_KEY"`
	AWSUseSecrets   bool   `env:"AWS_USE_SECRETS" env-default:"false"`
	AWSSecretPrefix string `env:"AWS_SECRET_PREFIX" env-default:"academy"`
	S3Bucket        string `env:"AWS_S3_BUCKET"`
	S3Prefix        string `env:"AWS_S3_PREFIX" env-default:"receipts"`
	S3Endpoint      string `env:"AWS_S3_ENDPOINT"`

	CloudinaryURL    string `env:"CLOUDINARY_URL"`
	CloudinaryFolder string `env:"CLOUDINARY_UPLOAD_FOLDER" env-default:"academy/receipts"`

	RedisURL string `env:"REDIS_URL"`

	EventsBackend  string   `env:"EVENTS_BACKEND" env-default:"none"`
	EventsTopicARN string   `env:"EVENTS_SNS_TOPIC_ARN"`
	KafkaBrokers   []string `env:"KAFKA_BROKERS" env-separator:"," env-default:"localhost:9092"`
	KafkaTopic     string   `env:"KAFKA_TOPIC" env-default:"academy-events"`

	SMTPHost       string `env:"SMTP_HOST"`
	SMTPPort       string `env:"SMTP_PORT" env-default:"587"`
	SMTPUser       string `env:"SMTP_USER"`
	SMTPPass       string `env:"SMTP_PASS"`
	SMTPSenderName string `env:"SMTP_SENDER_NAME" env-default:"Academy"`

	DefaultCurrency string `env:"DEFAULT_CURRENCY" env-default:"ARS"`
}

// LoadConfig reads configuration from the environment (and an optional .env
// file) with an optional Secrets Manager override.
func LoadConfig(logger *zap.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using system environment variables")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if cfg.AWSUseSecrets {
		if err := cfg.applySecrets(context.Background(), logger); err != nil {
			logger.Warn("Secrets Manager override failed, keeping environment values", zap.Error(err))
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type secretGetter interface {
	GetSecretMap(ctx context.Context, name string) (map[string]string, error)
	GetSecret(ctx context.Context, name string) (string, error)
}

func (c *Config) applySecrets(ctx context.Context, logger *zap.Logger) error {
	awsCfg, err := aws_pkg.LoadAWSConfig(ctx, c.awsOptions(c.AWSEndpoint))
	if err != nil {
		return err
	}
	c.overrideFrom(ctx, aws_pkg.NewSecretsClient(awsCfg), logger)
	return nil
}

// overrideFrom replaces DB credentials and the JWT secret with the values
// stored under <prefix>/DB_CREDENTIALS and <prefix>/JWT_SECRET.
func (c *Config) overrideFrom(ctx context.Context, sm secretGetter, logger *zap.Logger) {
	if m, err := sm.GetSecretMap(ctx, c.AWSSecretPrefix+"/DB_CREDENTIALS"); err == nil {
		set := func(dst *string, key string) {
			if v, ok := m[key]; ok && v != "" {
				*dst = v
			}
		}
		set(&c.PostgresUser, "POSTGRES_USER")
		set(&c.PostgresPassword, "POSTGRES_PASSWORD")
		set(&c.PostgresDB, "POSTGRES_DB")
		set(&c.PostgresHost, "POSTGRES_HOST")
		set(&c.PostgresPort, "POSTGRES_PORT")
	} else {
		logger.Warn("DB credentials secret unavailable", zap.Error(err))
	}

	if v, err := sm.GetSecret(ctx, c.AWSSecretPrefix+"/JWT_SECRET"); err == nil && v != "" {
		c.JWTSecret = v
	} else if err != nil {
		logger.Warn("JWT secret unavailable", zap.Error(err))
	}
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.PostgresUser == "" || c.PostgresPassword == "" || c.PostgresDB == "" || c.PostgresHost == "" {
		return errors.New("database config incomplete")
	}
	switch c.ReceiptStorage {
	case "local":
	case "s3":
		if c.S3Bucket == "" {
			return errors.New("AWS_S3_BUCKET is required for s3 receipt storage")
		}
	case "cloudinary":
		if c.CloudinaryURL == "" {
			return errors.New("CLOUDINARY_URL is required for cloudinary receipt storage")
		}
	default:
		return fmt.Errorf("unknown RECEIPT_STORAGE %q", c.ReceiptStorage)
	}
	switch c.EventsBackend {
	case "none", "kafka":
	case "sns":
		if c.EventsTopicARN == "" {
			return errors.New("EVENTS_SNS_TOPIC_ARN is required for sns events")
		}
	default:
		return fmt.Errorf("unknown EVENTS_BACKEND %q", c.EventsBackend)
	}
	c.DefaultCurrency = strings.ToUpper(c.DefaultCurrency)
	return nil
}

// DSN builds the key/value connection string used by GORM.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort, c.PostgresSSLMode, c.PostgresTimeZone)
}

// MigrateURL builds the postgres:// URL used by golang-migrate.
func (c *Config) MigrateURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:     c.PostgresHost + ":" + c.PostgresPort,
		Path:     "/" + c.PostgresDB,
		RawQuery: "sslmode=" + c.PostgresSSLMode,
	}
	return u.String()
}

func (c *Config) awsOptions(endpoint string) aws_pkg.Options {
	return aws_pkg.Options{
		Region:          c.AWSRegion,
		Endpoint:        endpoint,
		AccessKeyID:     c.AWSAccessKeyID,
		SecretAccessKey: c.AWSSecretKey,
	}
}
