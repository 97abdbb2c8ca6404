package pages

import (
	"context"
	"encoding/xml"
	"io"
	"time"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zaqqye/portfolio_backend/internal/cache"
	"github.com/zaqqye/portfolio_backend/internal/models"
)

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

func lastMod(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

func (h *Handler) sitemap(c *gin.Context, db *gorm.DB, ui models.UIConfig) (view, error) {
	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	add := func(path string, mod time.Time) {
		set.URLs = append(set.URLs, sitemapURL{Loc: h.url(path), LastMod: lastMod(mod)})
	}

	add("/", time.Time{})
	add("/about", time.Time{})
	add("/projects", time.Time{})

	var projects []models.Project
	if err := db.Select("slug", "updated_at").Order("sort_order ASC, id ASC").Find(&projects).Error; err != nil {
		return view{}, err
	}
	for _, p := range projects {
		add("/projects/"+p.Slug, p.UpdatedAt)
	}

	if ui.ShowBlog {
		add("/blogs", time.Time{})
		var posts []models.Blog
		if err := db.Select("slug", "updated_at").Where("published = ?", true).
			Order("sort_order ASC, id ASC").Find(&posts).Error; err != nil {
			return view{}, err
		}
		for _, b := range posts {
			add("/blogs/"+b.Slug, b.UpdatedAt)
		}
	}
	if ui.ShowContact {
		add("/contact", time.Time{})
	}

	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, xml.Header); err != nil {
			return err
		}
		enc := xml.NewEncoder(w)
		enc.Indent("", "  ")
		return enc.Encode(set)
	})
	return view{
		body:        body,
		bare:        true,
		contentType: "application/xml; charset=utf-8",
		tags:        []string{cache.TagSitemap, cache.TagProjects, cache.TagBlogs},
	}, nil
}
