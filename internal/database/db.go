package database

import (
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zaqqye/portfolio_backend/internal/config"
	"github.com/zaqqye/portfolio_backend/internal/models"
)

var (
	poolOnce sync.Once
	pool     *gorm.DB
	poolErr  error
)

// Pool returns the process-wide connection pool, opening it on first use.
// Later calls return the same pool (or the same error) regardless of cfg.
func Pool(cfg *config.Config) (*gorm.DB, error) {
	poolOnce.Do(func() {
		pool, poolErr = Connect(cfg)
	})
	return pool, poolErr
}

func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpen)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdle)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// Models lists every table the application reads or writes.
func Models() []any {
	return []any{
		&models.Profile{},
		&models.Experience{},
		&models.Education{},
		&models.Skill{},
		&models.Project{},
		&models.Blog{},
		&models.SiteConfig{},
		&models.UIConfig{},
		&models.Session{},
		&models.AIUsage{},
	}
}

// Migrate creates both schemas and brings tables up to date. Production
// tables normally exist already; this is for fresh environments.
func Migrate(db *gorm.DB) error {
	for _, schema := range []string{models.PortfolioSchema, models.AuditSchema} {
		if err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + schema).Error; err != nil {
			return fmt.Errorf("create schema %s: %w", schema, err)
		}
	}
	return db.AutoMigrate(Models()...)
}
