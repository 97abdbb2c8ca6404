package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/zaqqye/portfolio_backend/internal/models"
)

// CookieName holds the admin token.
const CookieName = "admin_token"

const issuer = "portfolio_backend"

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid token")

// IssueToken signs a token for the admin identified by email. sessionID
// becomes the jti so the session row can revoke it.
func IssueToken(cfg AuthConfig, email, sessionID string, now time.Time) (string, time.Time, error) {
	exp := now.Add(cfg.TokenTTL)
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   "admin",
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(cfg.JWTSecret))
	return s, exp, err
}

// ParseToken validates signature, issuer and expiry.
func ParseToken(cfg AuthConfig, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Authenticate resolves the admin cookie to claims, rejecting tokens whose
// session was revoked by logout.
func Authenticate(db *gorm.DB, cfg AuthConfig, c *gin.Context) (*Claims, error) {
	tokenStr, err := c.Cookie(CookieName)
	if err != nil || tokenStr == "" {
		return nil, ErrInvalidToken
	}
	claims, err := ParseToken(cfg, tokenStr)
	if err != nil {
		return nil, err
	}
	var session models.Session
	if err := db.WithContext(c.Request.Context()).
		Where("id = ? AND success = ? AND revoked_at IS NULL", claims.ID, true).
		First(&session).Error; err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RequireAdmin aborts with 401 unless the request carries a live admin token.
func RequireAdmin(db *gorm.DB, cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := Authenticate(db, cfg, c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set("admin", claims)
		c.Next()
	}
}

// OptionalAdmin marks the request as admin when a live token is present but
// lets anonymous requests through.
func OptionalAdmin(db *gorm.DB, cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := Authenticate(db, cfg, c); err == nil {
			c.Set("admin", claims)
		}
		c.Next()
	}
}

func IsAdmin(c *gin.Context) bool {
	_, ok := c.Get("admin")
	return ok
}
