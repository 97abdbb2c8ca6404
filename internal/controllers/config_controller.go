package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zaqqye/portfolio_backend/internal/middleware"
	"github.com/zaqqye/portfolio_backend/internal/models"
	"github.com/zaqqye/portfolio_backend/internal/utils"
)

var errBadCurrentPassword = errors.New("current password is incorrect")

// ConfigController serves the admin-only config singleton.
type ConfigController struct {
	Base
}

type configRequest struct {
	AdminEmail       *string `json:"admin_email" binding:"omitempty,email"`
	CurrentPassword  string  `json:"current_password"`
	NewPassword      *string `json:"new_password" binding:"omitempty,min=8"`
	GitHubOwner      *string `json:"github_owner"`
	GitHubRepo       *string `json:"github_repo"`
	GitHubBranch     *string `json:"github_branch"`
	ReadmePath       *string `json:"readme_path"`
	ContactRecipient *string `json:"contact_recipient" binding:"omitempty,email"`
	AIDailyLimit     *int    `json:"ai_daily_limit" binding:"omitempty,gte=0"`
}

func (cc *ConfigController) Get(c *gin.Context) {
	var cfg models.SiteConfig
	if err := cc.db(c).First(&cfg, models.SingletonID).Error; err != nil {
		cc.fail(c, err, "failed to load config")
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// Update applies a partial change. Changing the credential requires the
// current password and revokes every other session.
func (cc *ConfigController) Update(c *gin.Context) {
	var req configRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var cfg models.SiteConfig
	err := cc.db(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cfg, models.SingletonID).Error; err != nil {
			return err
		}
		credentialChanged := false
		if req.NewPassword != nil || (req.AdminEmail != nil && !strings.EqualFold(*req.AdminEmail, cfg.AdminEmail)) {
			if !utils.CheckPassword(cfg.AdminPasswordHash, req.CurrentPassword) {
				return errBadCurrentPassword
			}
			credentialChanged = true
		}
		if req.AdminEmail != nil {
			cfg.AdminEmail = strings.TrimSpace(*req.AdminEmail)
		}
		if req.NewPassword != nil {
			hashed, err := utils.HashPassword(*req.NewPassword)
			if err != nil {
				return err
			}
			cfg.AdminPasswordHash = hashed
		}
		if req.GitHubOwner != nil {
			cfg.GitHubOwner = strings.TrimSpace(*req.GitHubOwner)
		}
		if req.GitHubRepo != nil {
			cfg.GitHubRepo = strings.TrimSpace(*req.GitHubRepo)
		}
		if req.GitHubBranch != nil {
			cfg.GitHubBranch = strings.TrimSpace(*req.GitHubBranch)
		}
		if req.ReadmePath != nil {
			cfg.ReadmePath = strings.TrimSpace(*req.ReadmePath)
		}
		if req.ContactRecipient != nil {
			cfg.ContactRecipient = strings.TrimSpace(*req.ContactRecipient)
		}
		if req.AIDailyLimit != nil {
			cfg.AIDailyLimit = *req.AIDailyLimit
		}
		if err := tx.Save(&cfg).Error; err != nil {
			return err
		}
		if !credentialChanged {
			return nil
		}
		now := time.Now().UTC()
		q := tx.Model(&models.Session{}).Where("revoked_at IS NULL")
		if v, ok := c.Get("admin"); ok {
			q = q.Where("id <> ?", v.(*middleware.Claims).ID)
		}
		return q.Update("revoked_at", &now).Error
	})
	if errors.Is(err, errBadCurrentPassword) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		cc.fail(c, err, "failed to update config")
		return
	}
	c.JSON(http.StatusOK, cfg)
}
