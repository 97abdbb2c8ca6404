package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zaqqye/portfolio_backend/internal/integrations/mail"
	"github.com/zaqqye/portfolio_backend/internal/metrics"
	"github.com/zaqqye/portfolio_backend/internal/models"
	"github.com/zaqqye/portfolio_backend/internal/ratelimit"
	"github.com/zaqqye/portfolio_backend/internal/utils"
)

const (
	KindChat  = "chat"
	KindEmail = "email"
)

var ErrRateLimited = errors.New("ai usage limit reached")

type Service struct {
	DB           *gorm.DB
	Completer    Completer
	Mailer       mail.Sender
	Burst        *ratelimit.Keyed
	DefaultLimit int
	Metrics      *metrics.Metrics
	Log          *zap.Logger
	Now          func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Chat answers a visitor's question using the portfolio content as context.
func (s *Service) Chat(ctx context.Context, clientIP, question string, history []Turn) (string, error) {
	if s.Completer == nil {
		return "", ErrNotConfigured
	}
	if err := s.consume(ctx, clientIP, KindChat); err != nil {
		return "", err
	}
	system, err := s.portfolioContext(ctx)
	if err != nil {
		return "", err
	}
	turns := append(append([]Turn{}, history...), Turn{Role: "user", Content: question})
	answer, err := s.Completer.Complete(ctx, system, turns)
	s.record(KindChat, err)
	return answer, err
}

type DraftRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Purpose string `json:"purpose" binding:"required,max=500"`
	Notes   string `json:"notes" binding:"max=2000"`
}

// DraftEmail writes a message a visitor can send through the contact form.
func (s *Service) DraftEmail(ctx context.Context, clientIP string, req DraftRequest) (string, error) {
	if s.Completer == nil {
		return "", ErrNotConfigured
	}
	if err := s.consume(ctx, clientIP, KindEmail); err != nil {
		return "", err
	}
	var profile models.Profile
	if err := s.DB.WithContext(ctx).Limit(1).Find(&profile, models.SingletonID).Error; err != nil {
		return "", err
	}
	owner := profile.Name
	if owner == "" {
		owner = "the site owner"
	}
	system := fmt.Sprintf(
		"You help visitors write short, polite emails to %s. Reply with the email body only, no subject line, under 200 words.",
		owner,
	)
	prompt := fmt.Sprintf("My name is %s. I want to reach out about: %s.", req.Name, req.Purpose)
	if strings.TrimSpace(req.Notes) != "" {
		prompt += " Additional notes: " + req.Notes
	}
	draft, err := s.Completer.Complete(ctx, system, []Turn{{Role: "user", Content: prompt}})
	s.record(KindEmail, err)
	return draft, err
}

func (s *Service) record(kind string, err error) {
	if s.Metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.Metrics.AIRequests.WithLabelValues(kind, outcome).Inc()
}

// consume charges one request against the client's burst bucket and daily
// quota. The first request over quota notifies the owner once per day.
func (s *Service) consume(ctx context.Context, clientIP, kind string) error {
	if s.Burst != nil && !s.Burst.Allow(kind+":"+clientIP) {
		s.countLimited(kind)
		return ErrRateLimited
	}

	cfg, err := s.siteConfig(ctx)
	if err != nil {
		return err
	}
	limit := s.effectiveLimit(cfg)
	if limit <= 0 {
		s.countLimited(kind)
		return ErrRateLimited
	}

	now := s.now().UTC()
	key := utils.SHA256Hex(clientIP)
	day := now.Format("2006-01-02")
	notify, limited := false, false

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A concurrent first request may already have inserted the row.
		seed := models.AIUsage{ClientKey: key, Kind: kind, Day: day}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return err
		}
		var usage models.AIUsage
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("client_key = ? AND kind = ? AND day = ?", key, kind, day).
			First(&usage).Error; err != nil {
			return err
		}

		if usage.Count >= limit {
			limited = true
			if usage.Notified {
				return nil
			}
			notify = true
			return tx.Model(&usage).Update("notified", true).Error
		}
		return tx.Model(&usage).Update("count", gorm.Expr(`"count" + 1`)).Error
	})
	if err != nil {
		return err
	}
	if limited {
		s.countLimited(kind)
		if notify {
			s.notifyLimit(ctx, cfg, key, kind, limit, now)
		}
		return ErrRateLimited
	}
	return nil
}

// effectiveLimit prefers the admin-configured limit over the default.
func (s *Service) effectiveLimit(cfg models.SiteConfig) int {
	if cfg.AIDailyLimit > 0 {
		return cfg.AIDailyLimit
	}
	return s.DefaultLimit
}

// Limit is today's per-client quota for each kind; zero disables the
// assistant.
func (s *Service) Limit(ctx context.Context) (int, error) {
	cfg, err := s.siteConfig(ctx)
	if err != nil {
		return 0, err
	}
	return s.effectiveLimit(cfg), nil
}

func (s *Service) countLimited(kind string) {
	if s.Metrics != nil {
		s.Metrics.AIRequests.WithLabelValues(kind, "limited").Inc()
	}
}

func (s *Service) notifyLimit(ctx context.Context, cfg models.SiteConfig, key, kind string, limit int, at time.Time) {
	to := cfg.ContactRecipient
	if to == "" {
		to = cfg.AdminEmail
	}
	if s.Mailer == nil || to == "" {
		return
	}
	msg := mail.UsageLimitMessage(to, key, kind, limit, at)
	if err := s.Mailer.Send(ctx, msg); err != nil && !errors.Is(err, mail.ErrDisabled) {
		s.Log.Warn("ai limit notification failed", zap.Error(err))
	}
}

func (s *Service) siteConfig(ctx context.Context) (models.SiteConfig, error) {
	var cfg models.SiteConfig
	err := s.DB.WithContext(ctx).Limit(1).Find(&cfg, models.SingletonID).Error
	return cfg, err
}

// Usage reports today's count for a client.
func (s *Service) Usage(ctx context.Context, clientIP, kind string) (int, error) {
	var usage models.AIUsage
	err := s.DB.WithContext(ctx).
		Where("client_key = ? AND kind = ? AND day = ?", utils.SHA256Hex(clientIP), kind, s.now().UTC().Format("2006-01-02")).
		Limit(1).Find(&usage).Error
	return usage.Count, err
}
