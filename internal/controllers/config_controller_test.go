package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaqqye/portfolio_backend/internal/middleware"
	"github.com/zaqqye/portfolio_backend/internal/models"
	"github.com/zaqqye/portfolio_backend/internal/utils"
)

func configEnv(t *testing.T) *env {
	t.Helper()
	e := newEnv(t)
	cc := &ConfigController{Base: e.base}
	admin := e.router.Group("", middleware.RequireAdmin(e.db, testAuth))
	admin.GET("/config", cc.Get)
	admin.PUT("/config", cc.Update)
	admin.GET("/secret", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return e
}

func TestConfig_GetHidesHash(t *testing.T) {
	e := configEnv(t)
	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodGet, "/config", nil).Code)

	w := e.do(t, http.MethodGet, "/config", nil, e.adminCookie(t))
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, testEmail, body["admin_email"])
	assert.NotContains(t, body, "admin_password_hash")
	assert.NotContains(t, w.Body.String(), "$2a$")
}

func TestConfig_UpdateIntegrationSettings(t *testing.T) {
	e := configEnv(t)
	w := e.do(t, http.MethodPut, "/config", map[string]any{
		"github_owner":   "jane",
		"github_repo":    "jane",
		"ai_daily_limit": 5,
	}, e.adminCookie(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cfg models.SiteConfig
	require.NoError(t, e.db.First(&cfg, models.SingletonID).Error)
	assert.Equal(t, "jane", cfg.GitHubOwner)
	assert.Equal(t, 5, cfg.AIDailyLimit)
	assert.True(t, utils.CheckPassword(cfg.AdminPasswordHash, testPassword))
}

func TestConfig_PasswordChange(t *testing.T) {
	e := configEnv(t)
	current := e.adminCookie(t)
	other := e.adminCookie(t)

	w := e.do(t, http.MethodPut, "/config", map[string]any{
		"new_password":     "a much better secret",
		"current_password": "wrong",
	}, current)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, http.MethodPut, "/config", map[string]any{"new_password": "short", "current_password": testPassword}, current)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPut, "/config", map[string]any{
		"new_password":     "a much better secret",
		"current_password": testPassword,
	}, current)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cfg models.SiteConfig
	require.NoError(t, e.db.First(&cfg, models.SingletonID).Error)
	assert.True(t, utils.CheckPassword(cfg.AdminPasswordHash, "a much better secret"))
	assert.False(t, utils.CheckPassword(cfg.AdminPasswordHash, testPassword))

	assert.Equal(t, http.StatusNoContent, e.do(t, http.MethodGet, "/secret", nil, current).Code)
	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodGet, "/secret", nil, other).Code)
}
