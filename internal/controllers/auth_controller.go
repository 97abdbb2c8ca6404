package controllers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zaqqye/portfolio_backend/internal/middleware"
	"github.com/zaqqye/portfolio_backend/internal/models"
	"github.com/zaqqye/portfolio_backend/internal/utils"
)

type AuthController struct {
	Base
	Auth         middleware.AuthConfig
	CookieSecure bool
	Now          func() time.Time
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (a *AuthController) now() time.Time {
	if a.Now != nil {
		return a.Now().UTC()
	}
	return time.Now().UTC()
}

func (a *AuthController) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, value, maxAge, "/", "", a.CookieSecure, true)
}

// Login checks the shared admin credential and, on success, sets the admin
// cookie. Every attempt is recorded in request_audit.sessions.
func (a *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := a.db(c)
	var cfg models.SiteConfig
	if err := db.First(&cfg, models.SingletonID).Error; err != nil {
		a.fail(c, err, "failed to load credentials")
		return
	}

	now := a.now()
	ok := strings.EqualFold(strings.TrimSpace(req.Email), cfg.AdminEmail) &&
		utils.CheckPassword(cfg.AdminPasswordHash, req.Password)

	session := models.Session{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Success:   ok,
		CreatedAt: now,
	}
	if ok {
		exp := now.Add(a.Auth.TokenTTL)
		session.ExpiresAt = &exp
	}
	if err := db.Create(&session).Error; err != nil {
		a.fail(c, err, "failed to record session")
		return
	}
	if !ok {
		a.Log.Warn("admin login failed", zap.String("ip", session.IPAddress))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, exp, err := middleware.IssueToken(a.Auth, cfg.AdminEmail, session.ID, now)
	if err != nil {
		a.fail(c, err, "failed to issue token")
		return
	}
	a.setCookie(c, token, int(a.Auth.TokenTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"email":         cfg.AdminEmail,
		"expires_at":    exp,
	})
}

// Check never fails; it only reports whether the cookie is live.
func (a *AuthController) Check(c *gin.Context) {
	claims, err := middleware.Authenticate(a.DB, a.Auth, c)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"email":         claims.Email,
		"expires_at":    claims.ExpiresAt.Time,
	})
}

type logoutRequest struct {
	All bool `json:"all"`
}

// Logout revokes the current session, or every live session when all is
// set, and clears the cookie. Anonymous calls still succeed. The body is
// optional; an empty one means the current session only.
func (a *AuthController) Logout(c *gin.Context) {
	var req logoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := a.now()
	db := a.db(c)
	if claims, err := middleware.Authenticate(a.DB, a.Auth, c); err == nil {
		q := db.Model(&models.Session{}).Where("revoked_at IS NULL")
		if !req.All {
			q = q.Where("id = ?", claims.ID)
		}
		if err := q.Update("revoked_at", &now).Error; err != nil {
			a.fail(c, err, "failed to revoke session")
			return
		}
	}
	a.setCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
