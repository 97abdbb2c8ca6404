package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaqqye/portfolio_backend/internal/middleware"
	"github.com/zaqqye/portfolio_backend/internal/models"
)

func authEnv(t *testing.T) *env {
	t.Helper()
	e := newEnv(t)
	ac := &AuthController{Base: e.base, Auth: testAuth}
	e.router.POST("/auth/login", ac.Login)
	e.router.GET("/auth/check", ac.Check)
	e.router.POST("/auth/logout", ac.Logout)
	e.router.GET("/secret", middleware.RequireAdmin(e.db, testAuth), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return e
}

func findCookie(cookies []*http.Cookie) *http.Cookie {
	for _, c := range cookies {
		if c.Name == middleware.CookieName {
			return c
		}
	}
	return nil
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	e := authEnv(t)

	cases := map[string]map[string]string{
		"wrong password": {"email": testEmail, "password": "nope"},
		"wrong email":    {"email": "other@example.com", "password": testPassword},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := e.do(t, http.MethodPost, "/auth/login", body)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Nil(t, findCookie(w.Result().Cookies()))
		})
	}
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "x"}).Code)

	var failed int64
	require.NoError(t, e.db.Model(&models.Session{}).Where("success = ?", false).Count(&failed).Error)
	assert.EqualValues(t, 2, failed)
}

func TestLogin_SetsSevenDayCookie(t *testing.T) {
	e := authEnv(t)

	w := e.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "Owner@Example.com", "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cookie := findCookie(w.Result().Cookies())
	require.NotNil(t, cookie)
	assert.Equal(t, 604800, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)

	claims, err := middleware.ParseToken(testAuth, cookie.Value)
	require.NoError(t, err)
	var s models.Session
	require.NoError(t, e.db.First(&s, "id = ?", claims.ID).Error)
	assert.True(t, s.Success)
	require.NotNil(t, s.ExpiresAt)

	check := decode[map[string]any](t, e.do(t, http.MethodGet, "/auth/check", nil, cookie))
	assert.Equal(t, true, check["authenticated"])
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/secret", nil, cookie).Code)
}

func TestLogout_RevokesSession(t *testing.T) {
	e := authEnv(t)
	cookie := e.adminCookie(t)
	other := e.adminCookie(t)

	w := e.do(t, http.MethodPost, "/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	cleared := findCookie(w.Result().Cookies())
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	check := decode[map[string]any](t, e.do(t, http.MethodGet, "/auth/check", nil, cookie))
	assert.Equal(t, false, check["authenticated"])
	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodGet, "/secret", nil, cookie).Code)
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/secret", nil, other).Code)

	w = e.do(t, http.MethodPost, "/auth/logout", map[string]bool{"all": true}, other)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodGet, "/secret", nil, other).Code)
}

func TestLogout_MalformedBodyKeepsSession(t *testing.T) {
	e := authEnv(t)
	cookie := e.adminCookie(t)

	w := e.do(t, http.MethodPost, "/auth/logout", `{"all":`, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, findCookie(w.Result().Cookies()))
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/secret", nil, cookie).Code)

	w = e.do(t, http.MethodPost, "/auth/logout", `{"all":"yes"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/secret", nil, cookie).Code)
}

func TestCheck_Anonymous(t *testing.T) {
	e := authEnv(t)
	w := e.do(t, http.MethodGet, "/auth/check", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode[map[string]any](t, w)["authenticated"])
}
