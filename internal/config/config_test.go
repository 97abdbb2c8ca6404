package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 168*time.Hour, cfg.AuthTokenTTL)
	assert.Equal(t, time.Hour, cfg.PageCacheTTL)
	assert.False(t, cfg.MailEnabled())
	assert.True(t, cfg.AutoMigrate)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("AUTH_TOKEN_TTL", "2h")
	t.Setenv("SMTP_HOST", "smtp.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.AuthTokenTTL)
	assert.True(t, cfg.MailEnabled())
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("bad sslmode", func(t *testing.T) {
		t.Setenv("DB_SSLMODE", "sometimes")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("AUTH_TOKEN_TTL", "forever")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad admin email", func(t *testing.T) {
		t.Setenv("ADMIN_EMAIL", "not-an-email")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5433", DBSSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5433 sslmode=disable TimeZone=UTC", cfg.DSN())
}
