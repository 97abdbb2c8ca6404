package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/zaqqye/portfolio_backend/internal/cache"
	"github.com/zaqqye/portfolio_backend/internal/database"
	"github.com/zaqqye/portfolio_backend/internal/models"
)

type UIConfigController struct {
	Base
}

type uiConfigRequest struct {
	Theme       *string         `json:"theme" binding:"omitempty,oneof=light dark system"`
	AccentColor *string         `json:"accent_color" binding:"omitempty,hexcolor"`
	ShowBlog    *bool           `json:"show_blog"`
	ShowContact *bool           `json:"show_contact"`
	Settings    json.RawMessage `json:"settings"`
}

func (uc *UIConfigController) Get(c *gin.Context) {
	ui, err := database.LoadUIConfig(uc.db(c))
	if err != nil {
		uc.fail(c, err, "failed to load ui config")
		return
	}
	c.JSON(http.StatusOK, ui)
}

func (uc *UIConfigController) Update(c *gin.Context) {
	var req uiConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Settings) > 0 && !json.Valid(req.Settings) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "settings must be valid JSON"})
		return
	}

	var ui models.UIConfig
	err := uc.db(c).Transaction(func(tx *gorm.DB) error {
		var err error
		if ui, err = database.LoadUIConfig(tx); err != nil {
			return err
		}
		ui.ID = models.SingletonID
		if req.Theme != nil {
			ui.Theme = *req.Theme
		}
		if req.AccentColor != nil {
			ui.AccentColor = *req.AccentColor
		}
		if req.ShowBlog != nil {
			ui.ShowBlog = *req.ShowBlog
		}
		if req.ShowContact != nil {
			ui.ShowContact = *req.ShowContact
		}
		if len(req.Settings) > 0 {
			ui.Settings = datatypes.JSON(req.Settings)
		}
		return tx.Save(&ui).Error
	})
	if err != nil {
		uc.fail(c, err, "failed to update ui config")
		return
	}
	uc.revalidate(cache.TagUIConfig)
	c.JSON(http.StatusOK, ui)
}
