package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "STORE_BACKEND", "DYNAMO_TABLE_PRIMARY", "REDIS_ADDR", "BCRYPT_COST", "ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
	assert.Equal(t, "auth_tokens", cfg.DynamoTables.Primary)
	assert.Equal(t, "hospital_users", cfg.DynamoTables.Secondary)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 10*time.Second, cfg.IssuanceLockTTL)
	assert.Equal(t, 15*time.Minute, cfg.AdminSessionExpiry)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("STORE_BACKEND", BackendDynamo)
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("ISSUANCE_LOCK_TTL_SECONDS", "3")
	t.Setenv("ADMIN_SESSION_MINUTES", "5")
	t.Setenv("ALLOWED_ORIGINS", "http://a.example,http://b.example")

	cfg := Load()

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, BackendDynamo, cfg.StoreBackend)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 3*time.Second, cfg.IssuanceLockTTL)
	assert.Equal(t, 5*time.Minute, cfg.AdminSessionExpiry)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.AllowedOrigins)
}

func TestGetEnvInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("BCRYPT_COST", "not-a-number")
	assert.Equal(t, 10, getEnvInt("BCRYPT_COST", 10))
}
