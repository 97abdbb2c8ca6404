package database

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zaqqye/portfolio_backend/internal/config"
	"github.com/zaqqye/portfolio_backend/internal/models"
	"github.com/zaqqye/portfolio_backend/internal/utils"
)

// SeedConfig creates the config singleton with the admin credential from
// cfg when it does not exist. An existing row is never touched.
func SeedConfig(db *gorm.DB, cfg *config.Config, log *zap.Logger) error {
	var existing models.SiteConfig
	err := db.First(&existing, models.SingletonID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	row := models.SiteConfig{
		ID:                models.SingletonID,
		AdminEmail:        cfg.AdminEmail,
		AdminPasswordHash: hashed,
		GitHubBranch:      "main",
		ReadmePath:        "README.md",
		ContactRecipient:  cfg.AdminEmail,
		AIDailyLimit:      cfg.AIDailyLimit,
	}
	if err := db.Create(&row).Error; err != nil {
		return err
	}
	log.Info("seeded admin credential", zap.String("email", cfg.AdminEmail))
	return nil
}

// SeedSingletons makes sure the profile and ui_config rows exist so public
// reads never 404.
func SeedSingletons(db *gorm.DB) error {
	profile := models.Profile{ID: models.SingletonID}
	if err := db.Where(models.Profile{ID: models.SingletonID}).FirstOrCreate(&profile).Error; err != nil {
		return err
	}
	ui := models.UIConfig{ID: models.SingletonID, Theme: "system", ShowBlog: true, ShowContact: true}
	return db.Where(models.UIConfig{ID: models.SingletonID}).FirstOrCreate(&ui).Error
}

// LoadUIConfig returns the ui_config singleton, or the seeded defaults when
// the row is missing.
func LoadUIConfig(db *gorm.DB) (models.UIConfig, error) {
	ui := models.UIConfig{Theme: "system", ShowBlog: true, ShowContact: true}
	err := db.Limit(1).Find(&ui, models.SingletonID).Error
	return ui, err
}
