package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zaqqye/portfolio_backend/internal/cache"
	"github.com/zaqqye/portfolio_backend/internal/config"
	"github.com/zaqqye/portfolio_backend/internal/controllers"
	"github.com/zaqqye/portfolio_backend/internal/integrations/ai"
	"github.com/zaqqye/portfolio_backend/internal/integrations/mail"
	"github.com/zaqqye/portfolio_backend/internal/metrics"
	"github.com/zaqqye/portfolio_backend/internal/middleware"
	"github.com/zaqqye/portfolio_backend/internal/pages"
	"github.com/zaqqye/portfolio_backend/internal/ratelimit"
	"github.com/zaqqye/portfolio_backend/internal/ws"
)

// Deps is everything the route table wires into handlers. Pusher may be nil
// when no GitHub token is configured.
type Deps struct {
	DB           *gorm.DB
	Cfg          *config.Config
	Log          *zap.Logger
	Pages        *cache.PageCache
	Reval        *cache.Revalidator
	Hub          *ws.Hub
	Metrics      *metrics.Metrics
	AI           *ai.Service
	Mailer       mail.Sender
	Pusher       controllers.ReadmePusher
	LoginLimiter *ratelimit.Keyed
}

func Register(r *gin.Engine, d Deps) {
	if d.Mailer == nil {
		d.Mailer = mail.Disabled{}
	}
	if d.AI == nil {
		d.AI = &ai.Service{}
	}
	base := controllers.Base{DB: d.DB, Log: d.Log, Reval: d.Reval}
	authCfg := middleware.AuthConfig{JWTSecret: d.Cfg.JWTSecret, TokenTTL: d.Cfg.AuthTokenTTL}

	authCtrl := &controllers.AuthController{Base: base, Auth: authCfg, CookieSecure: d.Cfg.CookieSecure}
	profileCtrl := &controllers.ProfileController{Base: base}
	expCtrl := &controllers.ExperienceController{Base: base}
	eduCtrl := &controllers.EducationController{Base: base}
	skillCtrl := &controllers.SkillController{Base: base}
	projectCtrl := &controllers.ProjectController{Base: base}
	blogCtrl := &controllers.BlogController{Base: base}
	cfgCtrl := &controllers.ConfigController{Base: base}
	uiCtrl := &controllers.UIConfigController{Base: base}
	revalCtrl := &controllers.RevalidateController{Base: base}
	contactCtrl := &controllers.ContactController{Base: base, Mailer: d.Mailer}
	aiCtrl := &controllers.AIController{Base: base, Service: d.AI}
	ghCtrl := &controllers.GitHubController{Base: base, Pusher: d.Pusher, SiteURL: d.Cfg.SiteURL}
	healthCtrl := &controllers.HealthController{Base: base}

	r.GET("/healthz", healthCtrl.Healthz)
	if d.Metrics != nil {
		r.GET("/metrics", d.Metrics.Handler())
	}

	// Public
	api := r.Group("/api")
	{
		login := []gin.HandlerFunc{authCtrl.Login}
		if d.LoginLimiter != nil {
			login = append([]gin.HandlerFunc{ratelimit.Middleware(d.LoginLimiter)}, login...)
		}
		api.POST("/auth/login", login...)
		api.GET("/auth/check", authCtrl.Check)
		api.POST("/auth/logout", authCtrl.Logout)

		api.GET("/profile", profileCtrl.Get)
		api.GET("/experience", expCtrl.List)
		api.GET("/experience/:id", expCtrl.Get)
		api.GET("/education", eduCtrl.List)
		api.GET("/education/:id", eduCtrl.Get)
		api.GET("/skills", skillCtrl.List)
		api.GET("/skills/:id", skillCtrl.Get)
		api.GET("/projects", projectCtrl.List)
		api.GET("/projects/:id", projectCtrl.Get)
		api.GET("/projects/slug/:slug", projectCtrl.GetBySlug)
		api.GET("/ui-config", uiCtrl.Get)

		// Drafts are visible to a signed-in admin.
		blogs := api.Group("/blogs", middleware.OptionalAdmin(d.DB, authCfg))
		blogs.GET("", blogCtrl.List)
		blogs.GET("/:id", blogCtrl.Get)
		blogs.GET("/slug/:slug", blogCtrl.GetBySlug)

		api.POST("/contact", contactCtrl.Send)
		api.POST("/ai/chat", aiCtrl.Chat)
		api.POST("/ai/email-draft", aiCtrl.EmailDraft)
		api.GET("/ai/usage", aiCtrl.Usage)
	}

	// Admin
	admin := r.Group("/api", middleware.RequireAdmin(d.DB, authCfg))
	{
		admin.PUT("/profile", profileCtrl.Update)

		admin.POST("/experience", expCtrl.Create)
		admin.PUT("/experience/:id", expCtrl.Update)
		admin.DELETE("/experience/:id", expCtrl.Delete)

		admin.POST("/education", eduCtrl.Create)
		admin.PUT("/education/:id", eduCtrl.Update)
		admin.DELETE("/education/:id", eduCtrl.Delete)

		admin.POST("/skills", skillCtrl.Create)
		admin.PUT("/skills/:id", skillCtrl.Update)
		admin.DELETE("/skills/:id", skillCtrl.Delete)

		admin.POST("/projects", projectCtrl.Create)
		admin.PUT("/projects/reorder", projectCtrl.Reorder)
		admin.PUT("/projects/:id", projectCtrl.Update)
		admin.DELETE("/projects/:id", projectCtrl.Delete)

		admin.POST("/blogs", blogCtrl.Create)
		admin.PUT("/blogs/reorder", blogCtrl.Reorder)
		admin.PUT("/blogs/:id", blogCtrl.Update)
		admin.DELETE("/blogs/:id", blogCtrl.Delete)

		admin.GET("/config", cfgCtrl.Get)
		admin.PUT("/config", cfgCtrl.Update)
		admin.PUT("/ui-config", uiCtrl.Update)

		admin.POST("/revalidate", revalCtrl.Revalidate)
		if d.Hub != nil {
			admin.GET("/revalidate/ws", ws.Handler(d.Hub, d.Cfg.SiteURL))
		}

		admin.POST("/github/readme/generate", ghCtrl.Generate)
		admin.POST("/github/readme/push", ghCtrl.Push)
	}

	ph := &pages.Handler{
		DB:       d.DB,
		Cache:    d.Pages,
		Metrics:  d.Metrics,
		Log:      d.Log,
		SiteName: d.Cfg.SiteName,
		SiteURL:  d.Cfg.SiteURL,
	}
	ph.Register(r)
}
