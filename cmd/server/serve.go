package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/zaqqye/portfolio_backend/internal/cache"
	"github.com/zaqqye/portfolio_backend/internal/config"
	"github.com/zaqqye/portfolio_backend/internal/controllers"
	"github.com/zaqqye/portfolio_backend/internal/integrations/ai"
	ghsync "github.com/zaqqye/portfolio_backend/internal/integrations/github"
	"github.com/zaqqye/portfolio_backend/internal/integrations/mail"
	"github.com/zaqqye/portfolio_backend/internal/logging"
	"github.com/zaqqye/portfolio_backend/internal/metrics"
	"github.com/zaqqye/portfolio_backend/internal/ratelimit"
	"github.com/zaqqye/portfolio_backend/internal/routes"
	"github.com/zaqqye/portfolio_backend/internal/telemetry"
	"github.com/zaqqye/portfolio_backend/internal/ws"
)

const pageCacheBytes = 64 << 20

func newMailer(cfg *config.Config, log *zap.Logger) mail.Sender {
	if !cfg.MailEnabled() {
		log.Info("smtp not configured, mail disabled")
		return mail.Disabled{}
	}
	sender, err := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})
	if err != nil {
		log.Warn("smtp setup failed, mail disabled", zap.Error(err))
		return mail.Disabled{}
	}
	return sender
}

func newPusher(cfg *config.Config, log *zap.Logger) controllers.ReadmePusher {
	pub, err := ghsync.NewPublisher(cfg.GitHubToken, cfg.GitHubBaseURL)
	if err != nil {
		if !errors.Is(err, ghsync.ErrNotConfigured) {
			log.Warn("github setup failed", zap.Error(err))
		}
		return nil
	}
	return pub
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	shutdownTracing, err := telemetry.Init(cfg.OtelEnabled, os.Stdout)
	if err != nil {
		return err
	}

	if cfg.AutoMigrate {
		if err := migrate(cfg); err != nil {
			return err
		}
	}
	db, err := openDB(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub(log.Named("ws"))
	go hub.Run(ctx)

	pageCache, err := cache.NewPageCache(pageCacheBytes, cfg.PageCacheTTL)
	if err != nil {
		return err
	}
	defer pageCache.Close()

	m := metrics.New()
	reval := cache.NewRevalidator(pageCache, hub, m, log.Named("cache"))
	mailer := newMailer(cfg, log)

	aiSvc := &ai.Service{
		DB:           db,
		Mailer:       mailer,
		Burst:        ratelimit.NewKeyed(rate.Every(time.Minute/time.Duration(cfg.AIBurst)), cfg.AIBurst, time.Hour),
		DefaultLimit: cfg.AIDailyLimit,
		Metrics:      m,
		Log:          log.Named("ai"),
	}
	if cfg.OpenAIKey != "" {
		aiSvc.Completer = ai.NewOpenAICompleter(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), telemetry.Middleware(), logging.Middleware(log), m.Middleware())
	routes.Register(r, routes.Deps{
		DB:           db,
		Cfg:          cfg,
		Log:          log,
		Pages:        pageCache,
		Reval:        reval,
		Hub:          hub,
		Metrics:      m,
		AI:           aiSvc,
		Mailer:       mailer,
		Pusher:       newPusher(cfg, log),
		LoginLimiter: ratelimit.NewKeyed(rate.Every(time.Minute), 5, time.Hour),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracing shutdown", zap.Error(err))
	}
	return nil
}
