package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zaqqye/portfolio_backend/internal/cache"
)

// SQLSTATE codes the handlers map to specific statuses.
const (
	pgInsufficientPrivilege = "42501"
	pgUniqueViolation       = "23505"
)

var ErrNotFound = errors.New("not found")

// Base carries what every resource controller needs.
type Base struct {
	DB    *gorm.DB
	Log   *zap.Logger
	Reval *cache.Revalidator
}

// fail maps a storage error to a response. Permission errors become 403,
// unique violations 409, missing rows 404, everything else a generic 500.
// The underlying error is logged, never returned to the client.
func (b *Base) fail(c *gin.Context, err error, msg string) {
	switch status := statusFor(err); status {
	case http.StatusForbidden:
		c.JSON(status, gin.H{"error": "permission denied"})
	case http.StatusConflict:
		c.JSON(status, gin.H{"error": "already exists"})
	case http.StatusNotFound:
		c.JSON(status, gin.H{"error": "not found"})
	default:
		b.Log.Error(msg, zap.Error(err), zap.String("route", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

func statusFor(err error) int {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgInsufficientPrivilege:
			return http.StatusForbidden
		case pgUniqueViolation:
			return http.StatusConflict
		}
	}
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// parseID reads the :id path parameter, answering 400 when it is missing or
// not a positive integer.
func parseID(c *gin.Context) (uint, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if raw == "" || err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func (b *Base) revalidate(tags ...string) {
	b.Reval.Revalidate(tags...)
}

// db scopes queries to the request context.
func (b *Base) db(c *gin.Context) *gorm.DB {
	return b.DB.WithContext(c.Request.Context())
}
