package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zaqqye/portfolio_backend/internal/integrations/ai"
)

type AIController struct {
	Base
	Service *ai.Service
}

type chatRequest struct {
	Message string    `json:"message" binding:"required,max=2000"`
	History []ai.Turn `json:"history" binding:"max=20,dive"`
}

func (ac *AIController) respond(c *gin.Context, key, text string, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{key: text})
	case errors.Is(err, ai.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case errors.Is(err, ai.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		if status := statusFor(err); status != http.StatusInternalServerError {
			ac.fail(c, err, "ai request failed")
			return
		}
		ac.Log.Error("ai request failed", zap.Error(err), zap.String("route", c.FullPath()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "ai request failed"})
	}
}

func (ac *AIController) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	answer, err := ac.Service.Chat(c.Request.Context(), c.ClientIP(), req.Message, req.History)
	ac.respond(c, "reply", answer, err)
}

func (ac *AIController) EmailDraft(c *gin.Context) {
	var req ai.DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	draft, err := ac.Service.DraftEmail(c.Request.Context(), c.ClientIP(), req)
	ac.respond(c, "draft", draft, err)
}

// Usage reports the caller's remaining quota so the client can disable the
// assistant before a request is refused.
func (ac *AIController) Usage(c *gin.Context) {
	if ac.Service.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ai.ErrNotConfigured.Error()})
		return
	}
	ctx := c.Request.Context()
	limit, err := ac.Service.Limit(ctx)
	if err != nil {
		ac.fail(c, err, "failed to load ai usage")
		return
	}
	out := gin.H{"limit": limit}
	for _, kind := range []string{ai.KindChat, ai.KindEmail} {
		used, err := ac.Service.Usage(ctx, c.ClientIP(), kind)
		if err != nil {
			ac.fail(c, err, "failed to load ai usage")
			return
		}
		out[kind] = gin.H{"used": used, "remaining": max(limit-used, 0)}
	}
	c.JSON(http.StatusOK, out)
}
