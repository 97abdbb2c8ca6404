package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zaqqye/portfolio_backend/internal/integrations/mail"
	"github.com/zaqqye/portfolio_backend/internal/models"
)

type ContactController struct {
	Base
	Mailer mail.Sender
}

type contactRequest struct {
	Name    string `json:"name" binding:"required,max=120"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"max=200"`
	Message string `json:"message" binding:"required,min=2,max=5000"`
	// Website is a honeypot; real visitors leave it empty.
	Website string `json:"website"`
}

func (cc *ContactController) Send(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Website != "" {
		cc.Log.Info("contact honeypot triggered", zap.String("ip", c.ClientIP()))
		c.JSON(http.StatusOK, gin.H{"message": "sent"})
		return
	}

	var cfg models.SiteConfig
	if err := cc.db(c).First(&cfg, models.SingletonID).Error; err != nil {
		cc.fail(c, err, "failed to send message")
		return
	}
	to := cfg.ContactRecipient
	if to == "" {
		to = cfg.AdminEmail
	}
	msg := mail.ContactMessage(to, mail.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err := cc.Mailer.Send(c.Request.Context(), msg); err != nil {
		if errors.Is(err, mail.ErrDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		cc.Log.Error("contact delivery failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to send message"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sent"})
}
