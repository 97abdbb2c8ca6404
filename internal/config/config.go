package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Port       string `env:"PORT" envDefault:"8080"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"DB_NAME" envDefault:"portfolio"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	DBMaxOpen  int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10" validate:"gte=1"`
	DBMaxIdle  int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5" validate:"gte=0"`

	// Run schema migration before serving.
	AutoMigrate bool `env:"AUTO_MIGRATE" envDefault:"true"`

	JWTSecret    string        `env:"JWT_SECRET" envDefault:"supersecret_change_me" validate:"required"`
	AuthTokenTTL time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"168h" validate:"gt=0"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`

	// Used by SeedConfig only when the config row does not exist yet.
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@example.com" validate:"required,email"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"admin123" validate:"required"`

	SiteURL      string        `env:"SITE_URL" envDefault:"http://localhost:8080" validate:"required,url"`
	SiteName     string        `env:"SITE_NAME" envDefault:"Portfolio"`
	PageCacheTTL time.Duration `env:"PAGE_CACHE_TTL" envDefault:"1h"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM" envDefault:"no-reply@example.com" validate:"omitempty,email"`

	OpenAIKey     string `env:"OPENAI_API_KEY"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL" validate:"omitempty,url"`
	AIDailyLimit  int    `env:"AI_DAILY_LIMIT" envDefault:"20" validate:"gte=0"`
	AIBurst       int    `env:"AI_BURST" envDefault:"3" validate:"gte=1"`
	GitHubToken   string `env:"GITHUB_TOKEN"`
	GitHubBaseURL string `env:"GITHUB_API_URL"`

	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	OtelEnabled bool   `env:"OTEL_ENABLED" envDefault:"false"`
}

// Load reads the environment into a Config. Call godotenv.Load first if a
// .env file should be honored.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}
