// Package pages serves the server-rendered public site. Rendered output is
// kept in the page cache under revalidation tags and dropped when a mutation
// invalidates one of them.
package pages

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zaqqye/portfolio_backend/internal/cache"
	"github.com/zaqqye/portfolio_backend/internal/database"
	"github.com/zaqqye/portfolio_backend/internal/metrics"
	"github.com/zaqqye/portfolio_backend/internal/models"
)

const htmlContentType = "text/html; charset=utf-8"

var errNotFound = errors.New("page not found")

type Handler struct {
	DB       *gorm.DB
	Cache    *cache.PageCache
	Metrics  *metrics.Metrics
	Log      *zap.Logger
	SiteName string
	SiteURL  string
}

// view is one render: the body plus the tags its data depends on.
type view struct {
	meta        Meta
	body        templ.Component
	tags        []string
	contentType string
	// bare skips the HTML layout.
	bare bool
}

type renderFunc func(c *gin.Context, db *gorm.DB, ui models.UIConfig) (view, error)

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/", h.serve(h.home))
	r.GET("/about", h.serve(h.about))
	r.GET("/projects", h.serve(h.projects))
	r.GET("/projects/:slug", h.serve(h.project))
	r.GET("/blogs", h.serve(h.blogs))
	r.GET("/blogs/:slug", h.serve(h.blog))
	r.GET("/contact", h.serve(h.contact))
	r.GET("/sitemap.xml", h.serve(h.sitemap))
	r.GET("/robots.txt", h.robots)
}

func (h *Handler) url(path string) string {
	return strings.TrimRight(h.SiteURL, "/") + path
}

func (h *Handler) lookup(result string) {
	if h.Metrics != nil {
		h.Metrics.PageCache.WithLabelValues(result).Inc()
	}
}

// serve answers from the cache when possible and otherwise renders, stores
// the result under its tags and writes it. Only 200 responses are cached.
func (h *Handler) serve(render renderFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Request.URL.Path
		if h.Cache != nil {
			if p, ok := h.Cache.Get(key); ok {
				h.lookup("hit")
				c.Header("X-Cache", "HIT")
				c.Data(http.StatusOK, p.ContentType, p.Body)
				return
			}
		}
		h.lookup("miss")

		var epoch uint64
		if h.Cache != nil {
			epoch = h.Cache.Epoch()
		}
		ctx := c.Request.Context()
		db := h.DB.WithContext(ctx)

		ui, err := database.LoadUIConfig(db)
		if err != nil {
			h.renderError(c, err)
			return
		}
		v, err := render(c, db, ui)
		status := http.StatusOK
		if errors.Is(err, errNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			status = http.StatusNotFound
			v = view{meta: Meta{Title: "Not found"}, body: NotFound()}
		} else if err != nil {
			h.renderError(c, err)
			return
		}
		if v.contentType == "" {
			v.contentType = htmlContentType
		}

		var buf bytes.Buffer
		if v.bare {
			err = v.body.Render(ctx, &buf)
		} else {
			err = Layout(h.SiteName, v.meta, ui).Render(templ.WithChildren(ctx, v.body), &buf)
		}
		if err != nil {
			h.renderError(c, err)
			return
		}

		if status == http.StatusOK && h.Cache != nil {
			tags := append([]string{cache.TagUIConfig}, v.tags...)
			h.Cache.Set(key, cache.Page{
				Body:        buf.Bytes(),
				ContentType: v.contentType,
				Tags:        tags,
				RenderedAt:  time.Now().UTC(),
			}, epoch)
		}
		c.Header("X-Cache", "MISS")
		c.Data(status, v.contentType, buf.Bytes())
	}
}

func (h *Handler) renderError(c *gin.Context, err error) {
	h.Log.Error("render page", zap.Error(err), zap.String("path", c.Request.URL.Path))
	c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte("internal server error"))
}

func loadProfile(db *gorm.DB) (models.Profile, error) {
	var p models.Profile
	err := db.Limit(1).Find(&p, models.SingletonID).Error
	return p, err
}

func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > n {
		return strings.TrimSpace(string(r[:n])) + "..."
	}
	return s
}

func (h *Handler) home(c *gin.Context, db *gorm.DB, ui models.UIConfig) (view, error) {
	p, err := loadProfile(db)
	if err != nil {
		return view{}, err
	}
	var featured []models.Project
	if err := db.Where("featured = ?", true).Order("sort_order ASC, id ASC").Limit(6).Find(&featured).Error; err != nil {
		return view{}, err
	}
	var posts []models.Blog
	if ui.ShowBlog {
		if err := db.Where("published = ?", true).Order("published_at DESC, id DESC").Limit(3).Find(&posts).Error; err != nil {
			return view{}, err
		}
	}
	desc := p.Headline
	if desc == "" {
		desc = excerpt(p.Bio, 160)
	}
	return view{
		meta: Meta{Description: desc, Canonical: h.url("/"), Image: p.AvatarURL},
		body: Home(p, featured, posts),
		tags: []string{cache.TagProfile, cache.TagProjects, cache.TagBlogs},
	}, nil
}

func (h *Handler) about(c *gin.Context, db *gorm.DB, _ models.UIConfig) (view, error) {
	p, err := loadProfile(db)
	if err != nil {
		return view{}, err
	}
	var exp []models.Experience
	if err := db.Order("start_date DESC, id DESC").Find(&exp).Error; err != nil {
		return view{}, err
	}
	var edu []models.Education
	if err := db.Order("start_date DESC, id DESC").Find(&edu).Error; err != nil {
		return view{}, err
	}
	var skills []models.Skill
	if err := db.Order("category, name").Find(&skills).Error; err != nil {
		return view{}, err
	}
	return view{
		meta: Meta{Title: "About", Description: excerpt(p.Bio, 160), Canonical: h.url("/about"), Image: p.AvatarURL},
		body: About(p, exp, edu, skills),
		tags: []string{cache.TagProfile, cache.TagExperience, cache.TagEducation, cache.TagSkills},
	}, nil
}

func (h *Handler) projects(c *gin.Context, db *gorm.DB, _ models.UIConfig) (view, error) {
	var items []models.Project
	if err := db.Order("sort_order ASC, id ASC").Find(&items).Error; err != nil {
		return view{}, err
	}
	return view{
		meta: Meta{Title: "Projects", Description: "Selected projects", Canonical: h.url("/projects")},
		body: ProjectList(items),
		tags: []string{cache.TagProjects},
	}, nil
}

func (h *Handler) project(c *gin.Context, db *gorm.DB, _ models.UIConfig) (view, error) {
	slug := c.Param("slug")
	var p models.Project
	if err := db.Where("slug = ?", slug).First(&p).Error; err != nil {
		return view{}, err
	}
	desc := p.Summary
	if desc == "" {
		desc = excerpt(p.Description, 160)
	}
	return view{
		meta: Meta{Title: p.Title, Description: desc, Canonical: h.url("/projects/" + p.Slug), Image: p.ImageURL},
		body: ProjectDetail(p),
		tags: []string{cache.ProjectTag(p.Slug)},
	}, nil
}

func (h *Handler) blogs(c *gin.Context, db *gorm.DB, ui models.UIConfig) (view, error) {
	if !ui.ShowBlog {
		return view{}, errNotFound
	}
	var items []models.Blog
	if err := db.Where("published = ?", true).Order("sort_order ASC, id ASC").Find(&items).Error; err != nil {
		return view{}, err
	}
	return view{
		meta: Meta{Title: "Blog", Description: "Writing and notes", Canonical: h.url("/blogs")},
		body: BlogList(items),
		tags: []string{cache.TagBlogs},
	}, nil
}

func (h *Handler) blog(c *gin.Context, db *gorm.DB, ui models.UIConfig) (view, error) {
	if !ui.ShowBlog {
		return view{}, errNotFound
	}
	var b models.Blog
	if err := db.Where("slug = ? AND published = ?", c.Param("slug"), true).First(&b).Error; err != nil {
		return view{}, err
	}
	desc := b.Excerpt
	if desc == "" {
		desc = excerpt(b.Content, 160)
	}
	return view{
		meta: Meta{Title: b.Title, Description: desc, Canonical: h.url("/blogs/" + b.Slug)},
		body: BlogDetail(b),
		tags: []string{cache.BlogTag(b.Slug)},
	}, nil
}

func (h *Handler) contact(c *gin.Context, db *gorm.DB, ui models.UIConfig) (view, error) {
	if !ui.ShowContact {
		return view{}, errNotFound
	}
	p, err := loadProfile(db)
	if err != nil {
		return view{}, err
	}
	return view{
		meta: Meta{Title: "Contact", Description: "Get in touch", Canonical: h.url("/contact")},
		body: Contact(p),
		tags: []string{cache.TagProfile},
	}, nil
}

func (h *Handler) robots(c *gin.Context) {
	body := "User-agent: *\nAllow: /\nDisallow: /api/\n\nSitemap: " + h.url("/sitemap.xml") + "\n"
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}
