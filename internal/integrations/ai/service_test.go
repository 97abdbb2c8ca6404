package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/zaqqye/portfolio_backend/internal/integrations/mail"
	"github.com/zaqqye/portfolio_backend/internal/metrics"
	"github.com/zaqqye/portfolio_backend/internal/models"
	"github.com/zaqqye/portfolio_backend/internal/ratelimit"
	"github.com/zaqqye/portfolio_backend/internal/testutil"
)

type fakeCompleter struct {
	system string
	turns  []Turn
	reply  string
	err    error
}

func (f *fakeCompleter) Complete(_ context.Context, system string, turns []Turn) (string, error) {
	f.system = system
	f.turns = turns
	return f.reply, f.err
}

type fakeMailer struct{ sent []mail.Message }

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	f.sent = append(f.sent, msg)
	return nil
}

func newService(t *testing.T, limit int) (*Service, *fakeCompleter, *fakeMailer) {
	t.Helper()
	db := testutil.NewDB(t)
	require.NoError(t, db.Create(&models.SiteConfig{
		ID: models.SingletonID, AdminEmail: "owner@example.com", AdminPasswordHash: "x",
		ContactRecipient: "owner@example.com", AIDailyLimit: limit,
	}).Error)
	require.NoError(t, db.Create(&models.Profile{ID: models.SingletonID, Name: "Jane Doe", Headline: "Backend engineer"}).Error)
	require.NoError(t, db.Create(&models.Skill{Name: "Go", Category: "Languages"}).Error)
	require.NoError(t, db.Create(&models.Project{Title: "Tracker", Slug: "tracker", Summary: "Habit tracker", TechStack: []string{"Go", "Postgres"}}).Error)

	comp := &fakeCompleter{reply: "Hello!"}
	mailer := &fakeMailer{}
	svc := &Service{
		DB:           db,
		Completer:    comp,
		Mailer:       mailer,
		Burst:        ratelimit.NewKeyed(rate.Inf, 1, time.Hour),
		DefaultLimit: 10,
		Metrics:      metrics.New(),
		Log:          zap.NewNop(),
		Now:          func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
	return svc, comp, mailer
}

func TestChat_UsesPortfolioContext(t *testing.T) {
	svc, comp, _ := newService(t, 5)

	answer, err := svc.Chat(context.Background(), "10.0.0.1", "What do you build?", []Turn{{Role: "assistant", Content: "Hi"}})
	require.NoError(t, err)
	assert.Equal(t, "Hello!", answer)

	assert.Contains(t, comp.system, "Jane Doe")
	assert.Contains(t, comp.system, "Skills: Go")
	assert.Contains(t, comp.system, `Project "Tracker": Habit tracker (Go, Postgres)`)
	require.Len(t, comp.turns, 2)
	assert.Equal(t, "What do you build?", comp.turns[1].Content)

	n, err := svc.Usage(context.Background(), "10.0.0.1", KindChat)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestChat_FirstRequestRaceSharesRow(t *testing.T) {
	svc, _, _ := newService(t, 5)
	ctx := context.Background()

	// Another request inserts today's row between our lookup and insert.
	fired := false
	require.NoError(t, svc.DB.Callback().Create().Before("gorm:create").Register("test:competing_insert", func(tx *gorm.DB) {
		u, ok := tx.Statement.Dest.(*models.AIUsage)
		if !ok || fired {
			return
		}
		fired = true
		_, err := tx.Statement.ConnPool.ExecContext(tx.Statement.Context,
			`INSERT INTO request_audit.ai_usage (client_key, kind, day, count, notified) VALUES (?, ?, ?, 3, false)`,
			u.ClientKey, u.Kind, u.Day)
		require.NoError(t, err)
	}))

	_, err := svc.Chat(ctx, "10.0.0.9", "q", nil)
	require.NoError(t, err)
	assert.True(t, fired)

	n, err := svc.Usage(ctx, "10.0.0.9", KindChat)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	var rows int64
	require.NoError(t, svc.DB.Model(&models.AIUsage{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}

func TestChat_DailyLimitNotifiesOnce(t *testing.T) {
	svc, _, mailer := newService(t, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.Chat(ctx, "10.0.0.2", "q", nil)
		require.NoError(t, err)
	}
	_, err := svc.Chat(ctx, "10.0.0.2", "q", nil)
	assert.ErrorIs(t, err, ErrRateLimited)
	_, err = svc.Chat(ctx, "10.0.0.2", "q", nil)
	assert.ErrorIs(t, err, ErrRateLimited)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "[AI] chat limit reached", mailer.sent[0].Subject)

	// Other clients and other kinds keep their own quota.
	_, err = svc.Chat(ctx, "10.0.0.3", "q", nil)
	assert.NoError(t, err)
	_, err = svc.DraftEmail(ctx, "10.0.0.2", DraftRequest{Name: "Ada", Purpose: "hiring"})
	assert.NoError(t, err)
}

func TestChat_QuotaResetsNextDay(t *testing.T) {
	svc, _, _ := newService(t, 1)
	ctx := context.Background()

	_, err := svc.Chat(ctx, "10.0.0.4", "q", nil)
	require.NoError(t, err)
	_, err = svc.Chat(ctx, "10.0.0.4", "q", nil)
	require.ErrorIs(t, err, ErrRateLimited)

	svc.Now = func() time.Time { return time.Date(2026, 3, 2, 0, 0, 1, 0, time.UTC) }
	_, err = svc.Chat(ctx, "10.0.0.4", "q", nil)
	assert.NoError(t, err)
}

func TestChat_BurstLimiter(t *testing.T) {
	svc, _, _ := newService(t, 100)
	svc.Burst = ratelimit.NewKeyed(rate.Every(time.Hour), 1, time.Hour)

	_, err := svc.Chat(context.Background(), "10.0.0.5", "q", nil)
	require.NoError(t, err)
	_, err = svc.Chat(context.Background(), "10.0.0.5", "q", nil)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestChat_CompleterError(t *testing.T) {
	svc, comp, _ := newService(t, 5)
	comp.err = errors.New("upstream down")

	_, err := svc.Chat(context.Background(), "10.0.0.6", "q", nil)
	assert.EqualError(t, err, "upstream down")
}

func TestChat_NotConfigured(t *testing.T) {
	svc, _, _ := newService(t, 5)
	svc.Completer = nil
	_, err := svc.Chat(context.Background(), "10.0.0.7", "q", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestDraftEmail_Prompt(t *testing.T) {
	svc, comp, _ := newService(t, 5)
	comp.reply = "Dear Jane, ..."

	draft, err := svc.DraftEmail(context.Background(), "10.0.0.8", DraftRequest{Name: "Ada", Purpose: "a contract role", Notes: "Remote only"})
	require.NoError(t, err)
	assert.Equal(t, "Dear Jane, ...", draft)
	assert.Contains(t, comp.system, "Jane Doe")
	require.Len(t, comp.turns, 1)
	assert.Contains(t, comp.turns[0].Content, "My name is Ada")
	assert.Contains(t, comp.turns[0].Content, "Remote only")
}

func TestOpenAICompleter(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"test-model",
			"choices":[{"index":0,"message":{"role":"assistant","content":"  Sure thing.  "},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`))
	}))
	defer srv.Close()

	c := NewOpenAICompleter("sk-test", "test-model", srv.URL+"/v1")
	out, err := c.Complete(context.Background(), "be brief", []Turn{{Role: "user", Content: "hi"}, {Role: "assistant", Content: "hello"}})
	require.NoError(t, err)
	assert.Equal(t, "Sure thing.", out)

	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "assistant", got.Messages[2].Role)
}
