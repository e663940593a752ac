package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "test_config.yaml")

	err := os.WriteFile(configPath, []byte(content), 0o600)
	require.NoError(t, err, "Failed to write temporary config file")

	return configPath
}

func TestMustLoad(t *testing.T) {
	validYAML := `
env: "test"
http_server:
  address: ":8081"
database:
  PG_HOST: "dbhost"
  PG_PORT: "5433"
  PG_USER: "testuser"
  PG_PASSWORD: "testpassword"
  PG_DBNAME: "testdb"
  PG_SSLMODE: "disable"
redis:
  REDIS_HOST: "redishost"
  REDIS_PORT: "6380"
  REDIS_DB: 1
cache:
  DEFAULT_TTL: "10m"
  PRICING_TTL: "30s"
security:
  JWT_KEY: "testjwtkey"
stripe:
  STRIPE_API_KEY: "sk_test_123"
  STRIPE_WEBHOOK_SECRET: "whsec_test_123"
  STRIPE_CURRENCY: "usd"
sendgrid:
  SENDGRID_FROM_EMAIL: "test@example.com"
otel:
  ENABLED: true
  SERVICE_NAME: "test-service"
`

	t.Run("Success - Load From CONFIG_PATH", func(t *testing.T) {
		// Arrange
		configPath := createTempConfigFile(t, validYAML)
		t.Setenv("CONFIG_PATH", configPath)

		// Act
		cfg := MustLoad()

		// Assert
		require.NotNil(t, cfg)
		assert.Equal(t, "test", cfg.Env)
		assert.Equal(t, ":8081", cfg.HTTPServer.Addr)
		assert.Equal(t, "dbhost", cfg.Database.Host)
		assert.Equal(t, "redishost", cfg.RedisConnect.Host)
		assert.Equal(t, 10*time.Minute, cfg.CacheConfig.DefaultTTL)
		assert.Equal(t, 30*time.Second, cfg.CacheConfig.PricingTTL)
		assert.Equal(t, "testjwtkey", cfg.Security.JWTKey)
		assert.Equal(t, "usd", cfg.Stripe.Currency)
		assert.True(t, cfg.Otel.Enabled)
	})

	t.Run("Success - Defaults Applied", func(t *testing.T) {
		// Arrange
		minimalYAML := `
env: "test"
database:
  PG_USER: "u"
  PG_PASSWORD: "p"
  PG_DBNAME: "d"
security:
  JWT_KEY: "k"
`
		configPath := createTempConfigFile(t, minimalYAML)
		t.Setenv("CONFIG_PATH", configPath)

		// Act
		cfg := MustLoad()

		// Assert
		assert.Equal(t, ":8080", cfg.HTTPServer.Addr)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, "6379", cfg.RedisConnect.Port)
		assert.Equal(t, 5*time.Minute, cfg.CacheConfig.DefaultTTL)
		assert.Equal(t, "inr", cfg.Stripe.Currency)
		assert.False(t, cfg.Otel.Enabled)
	})
}

func TestGetDSN(t *testing.T) {
	// Arrange
	db := &Database{
		Host: "dbhost", Port: "5433", User: "u", Password: "p", Name: "d", SSLMode: "disable",
	}
	redis := &RedisConnect{
		Host: "redishost", Port: "6380", Username: "ru", Password: "rp", DB: 1,
	}

	// Assert
	assert.Equal(t, "postgres://u:p@dbhost:5433/d?sslmode=disable", db.GetDSN())
	assert.Equal(t, "redis://ru:rp@redishost:6380/1", redis.GetDSN())
}
