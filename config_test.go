package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func baseEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("POSTGRES_USER", "academy")
	t.Setenv("POSTGRES_PASSWORD", "p@ss:word")
	t.Setenv("POSTGRES_DB", "academy")
	t.Setenv("POSTGRES_HOST", "db")
}

func TestLoadConfigDefaults(t *testing.T) {
	baseEnv(t)

	cfg, err := LoadConfig(zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "local", cfg.ReceiptStorage)
	assert.Equal(t, "none", cfg.EventsBackend)
	assert.Equal(t, "ARS", cfg.DefaultCurrency)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	baseEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig(zap.NewNop())
	assert.EqualError(t, err, "JWT_SECRET is required")
}

func TestValidateStorageBackends(t *testing.T) {
	cfg := Config{JWTSecret: "x", PostgresUser: "u", PostgresPassword: "p", PostgresDB: "d", PostgresHost: "h", EventsBackend: "none"}

	cfg.ReceiptStorage = "s3"
	assert.Error(t, cfg.Validate())
	cfg.S3Bucket = "receipts"
	assert.NoError(t, cfg.Validate())

	cfg.ReceiptStorage = "cloudinary"
	assert.Error(t, cfg.Validate())

	cfg.ReceiptStorage = "ftp"
	assert.Error(t, cfg.Validate())

	cfg.ReceiptStorage = "local"
	cfg.EventsBackend = "sns"
	assert.Error(t, cfg.Validate())
}

func TestMigrateURLEscapesPassword(t *testing.T) {
	cfg := Config{PostgresUser: "academy", PostgresPassword: "p@ss:word", PostgresHost: "db", PostgresPort: "5432", PostgresDB: "academy", PostgresSSLMode: "disable"}
	assert.Equal(t, "postgres://academy:p%40ss%3Aword@db:5432/academy?sslmode=disable", cfg.MigrateURL())
}

type stubSecrets struct {
	maps    map[string]map[string]string
	strings map[string]string
}

func (s stubSecrets) GetSecretMap(_ context.Context, name string) (map[string]string, error) {
	if m, ok := s.maps[name]; ok {
		return m, nil
	}
	return nil, errors.New("not found")
}

func (s stubSecrets) GetSecret(_ context.Context, name string) (string, error) {
	if v, ok := s.strings[name]; ok {
		return v, nil
	}
	return "", errors.New("not found")
}

func TestOverrideFromSecrets(t *testing.T) {
	cfg := Config{AWSSecretPrefix: "academy", PostgresUser: "env-user", PostgresHost: "env-host", JWTSecret: "env-secret"}
	sm := stubSecrets{
		maps:    map[string]map[string]string{"academy/DB_CREDENTIALS": {"POSTGRES_USER": "sm-user", "POSTGRES_HOST": ""}},
		strings: map[string]string{"academy/JWT_SECRET": "sm-secret"},
	}

	cfg.overrideFrom(context.Background(), sm, zap.NewNop())

	assert.Equal(t, "sm-user", cfg.PostgresUser)
	assert.Equal(t, "env-host", cfg.PostgresHost)
	assert.Equal(t, "sm-secret", cfg.JWTSecret)
}
