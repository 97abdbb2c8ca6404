package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zaqqye/portfolio_backend/internal/cache"
	"github.com/zaqqye/portfolio_backend/internal/middleware"
	"github.com/zaqqye/portfolio_backend/internal/models"
	"github.com/zaqqye/portfolio_backend/internal/testutil"
	"github.com/zaqqye/portfolio_backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testEmail    = "owner@example.com"
	testPassword = "correct horse battery"
)

var testAuth = middleware.AuthConfig{JWTSecret: "test-secret", TokenTTL: 168 * time.Hour}

type recordingPublisher struct{ tags [][]string }

func (r *recordingPublisher) Publish(tags []string) { r.tags = append(r.tags, tags) }

func (r *recordingPublisher) all() []string {
	var out []string
	for _, t := range r.tags {
		out = append(out, t...)
	}
	return out
}

type env struct {
	db     *gorm.DB
	base   Base
	pub    *recordingPublisher
	router *gin.Engine
}

// newEnv returns a database seeded with the admin credential and a bare
// router; tests mount only the handlers they exercise.
func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	hash, err := utils.HashPassword(testPassword)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.SiteConfig{
		ID:                models.SingletonID,
		AdminEmail:        testEmail,
		AdminPasswordHash: hash,
		GitHubBranch:      "main",
		ReadmePath:        "README.md",
		ContactRecipient:  testEmail,
	}).Error)

	pub := &recordingPublisher{}
	base := Base{DB: db, Log: zap.NewNop(), Reval: cache.NewRevalidator(nil, pub, nil, zap.NewNop())}
	return &env{db: db, base: base, pub: pub, router: gin.New()}
}

// adminCookie creates a live session and returns a cookie for it.
func (e *env) adminCookie(t *testing.T) *http.Cookie {
	t.Helper()
	s := models.Session{Success: true}
	require.NoError(t, e.db.Create(&s).Error)
	tok, _, err := middleware.IssueToken(testAuth, testEmail, s.ID, time.Now())
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.CookieName, Value: tok}
}

func (e *env) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
