package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ghsync "github.com/zaqqye/portfolio_backend/internal/integrations/github"
	"github.com/zaqqye/portfolio_backend/internal/models"
)

// ReadmePusher commits README content to a repository.
type ReadmePusher interface {
	Push(ctx context.Context, t ghsync.Target, content string) (ghsync.PushResult, error)
}

type GitHubController struct {
	Base
	Pusher  ReadmePusher
	SiteURL string
}

func (gc *GitHubController) render(c *gin.Context) (string, bool) {
	data, err := ghsync.LoadReadmeData(c.Request.Context(), gc.DB, gc.SiteURL)
	if err != nil {
		gc.fail(c, err, "failed to generate readme")
		return "", false
	}
	return ghsync.RenderReadme(data), true
}

// Generate returns the README markdown without pushing it.
func (gc *GitHubController) Generate(c *gin.Context) {
	md, ok := gc.render(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"markdown": md})
}

func (gc *GitHubController) Push(c *gin.Context) {
	if gc.Pusher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ghsync.ErrNotConfigured.Error()})
		return
	}
	var cfg models.SiteConfig
	if err := gc.db(c).First(&cfg, models.SingletonID).Error; err != nil {
		gc.fail(c, err, "failed to load config")
		return
	}
	target := ghsync.Target{
		Owner:  cfg.GitHubOwner,
		Repo:   cfg.GitHubRepo,
		Branch: cfg.GitHubBranch,
		Path:   cfg.ReadmePath,
	}
	if err := target.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "github_owner and github_repo must be configured"})
		return
	}
	md, ok := gc.render(c)
	if !ok {
		return
	}
	res, err := gc.Pusher.Push(c.Request.Context(), target, md)
	if err != nil {
		if errors.Is(err, ghsync.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		gc.Log.Error("readme push failed", zap.Error(err), zap.String("repo", target.Owner+"/"+target.Repo))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to push readme"})
		return
	}
	c.JSON(http.StatusOK, res)
}
