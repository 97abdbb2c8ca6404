package pages

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/zaqqye/portfolio_backend/internal/models"
)

// Meta is the per-page SEO header.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	Image       string
}

// html accumulates the first write error so components read top to bottom.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *html) text(s string) { h.raw(templ.EscapeString(s)) }

func (h *html) rawf(format string, args ...any) { h.raw(fmt.Sprintf(format, args...)) }

// attr writes ` name="value"` with value escaped, skipping empty values.
func (h *html) attr(name, value string) {
	if value != "" {
		h.rawf(` %s="%s"`, name, templ.EscapeString(value))
	}
}

// paragraphs splits on blank lines.
func (h *html) paragraphs(s string) {
	for _, p := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			h.raw("<p>")
			h.text(p)
			h.raw("</p>")
		}
	}
}

func component(fn func(h *html)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		fn(h)
		return h.err
	})
}

func monthYear(t *time.Time) string {
	if t == nil {
		return "Present"
	}
	return t.Format("Jan 2006")
}

// Layout wraps the page children in the site shell.
func Layout(siteName string, meta Meta, ui models.UIConfig) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		title := siteName
		if meta.Title != "" {
			title = meta.Title + " | " + siteName
		}
		h.raw(`<!DOCTYPE html><html lang="en"`)
		h.attr("data-theme", ui.Theme)
		h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw("<title>")
		h.text(title)
		h.raw("</title>")
		if meta.Description != "" {
			h.raw(`<meta name="description"`)
			h.attr("content", meta.Description)
			h.raw(">")
			h.raw(`<meta property="og:description"`)
			h.attr("content", meta.Description)
			h.raw(">")
		}
		h.raw(`<meta property="og:title"`)
		h.attr("content", title)
		h.raw(">")
		if meta.Canonical != "" {
			h.raw(`<link rel="canonical"`)
			h.attr("href", meta.Canonical)
			h.raw(">")
		}
		if meta.Image != "" {
			h.raw(`<meta property="og:image"`)
			h.attr("content", meta.Image)
			h.raw(">")
		}
		if ui.AccentColor != "" {
			h.raw(`<style>:root{--accent:`)
			h.text(ui.AccentColor)
			h.raw(`}</style>`)
		}
		h.raw(`</head><body><header><nav><a href="/">Home</a><a href="/about">About</a><a href="/projects">Projects</a>`)
		if ui.ShowBlog {
			h.raw(`<a href="/blogs">Blog</a>`)
		}
		if ui.ShowContact {
			h.raw(`<a href="/contact">Contact</a>`)
		}
		h.raw(`</nav></header><main>`)
		if h.err != nil {
			return h.err
		}
		if err := templ.GetChildren(ctx).Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</main><footer>`)
		h.rawf("&copy; %d ", time.Now().Year())
		h.text(siteName)
		h.raw(`</footer></body></html>`)
		return h.err
	})
}

func projectCard(h *html, p models.Project) {
	h.raw(`<article class="project"><h3><a href="/projects/`)
	h.text(p.Slug)
	h.raw(`">`)
	h.text(p.Title)
	h.raw(`</a></h3>`)
	if p.Summary != "" {
		h.raw("<p>")
		h.text(p.Summary)
		h.raw("</p>")
	}
	if len(p.TechStack) > 0 {
		h.raw(`<ul class="tech">`)
		for _, t := range p.TechStack {
			h.raw("<li>")
			h.text(t)
			h.raw("</li>")
		}
		h.raw("</ul>")
	}
	h.raw("</article>")
}

func blogCard(h *html, b models.Blog) {
	h.raw(`<article class="post"><h3><a href="/blogs/`)
	h.text(b.Slug)
	h.raw(`">`)
	h.text(b.Title)
	h.raw(`</a></h3>`)
	if b.PublishedAt != nil {
		h.rawf(`<time datetime="%s">`, b.PublishedAt.Format("2006-01-02"))
		h.text(b.PublishedAt.Format("Jan 2, 2006"))
		h.raw("</time>")
	}
	if b.Excerpt != "" {
		h.raw("<p>")
		h.text(b.Excerpt)
		h.raw("</p>")
	}
	h.raw("</article>")
}

func Home(p models.Profile, featured []models.Project, posts []models.Blog) templ.Component {
	return component(func(h *html) {
		h.raw(`<section class="hero"><h1>`)
		h.text(p.Name)
		h.raw("</h1>")
		if p.Headline != "" {
			h.raw(`<p class="headline">`)
			h.text(p.Headline)
			h.raw("</p>")
		}
		h.raw("</section>")
		if len(featured) > 0 {
			h.raw(`<section><h2>Featured projects</h2>`)
			for _, pr := range featured {
				projectCard(h, pr)
			}
			h.raw("</section>")
		}
		if len(posts) > 0 {
			h.raw(`<section><h2>Recent posts</h2>`)
			for _, b := range posts {
				blogCard(h, b)
			}
			h.raw("</section>")
		}
	})
}

func About(p models.Profile, exp []models.Experience, edu []models.Education, skills []models.Skill) templ.Component {
	return component(func(h *html) {
		h.raw("<h1>About</h1>")
		h.paragraphs(p.Bio)
		if len(exp) > 0 {
			h.raw(`<section><h2>Experience</h2><ul class="timeline">`)
			for _, e := range exp {
				h.raw("<li><strong>")
				h.text(e.Role)
				h.raw("</strong> at ")
				h.text(e.Company)
				h.raw(` <span class="dates">`)
				h.text(monthYear(e.StartDate) + " - " + monthYear(e.EndDate))
				h.raw("</span>")
				h.paragraphs(e.Description)
				h.raw("</li>")
			}
			h.raw("</ul></section>")
		}
		if len(edu) > 0 {
			h.raw(`<section><h2>Education</h2><ul class="timeline">`)
			for _, e := range edu {
				h.raw("<li><strong>")
				h.text(e.Institution)
				h.raw("</strong>")
				if deg := strings.TrimSpace(e.Degree + " " + e.Field); deg != "" {
					h.raw(", ")
					h.text(deg)
				}
				h.raw(` <span class="dates">`)
				h.text(monthYear(e.StartDate) + " - " + monthYear(e.EndDate))
				h.raw("</span></li>")
			}
			h.raw("</ul></section>")
		}
		if len(skills) > 0 {
			h.raw(`<section><h2>Skills</h2>`)
			category := "\x00"
			for _, s := range skills {
				if s.Category != category {
					if category != "\x00" {
						h.raw("</ul>")
					}
					category = s.Category
					if category != "" {
						h.raw("<h3>")
						h.text(category)
						h.raw("</h3>")
					}
					h.raw(`<ul class="skills">`)
				}
				h.rawf(`<li data-level="%d">`, s.Level)
				h.text(s.Name)
				h.raw("</li>")
			}
			h.raw("</ul></section>")
		}
	})
}

func ProjectList(items []models.Project) templ.Component {
	return component(func(h *html) {
		h.raw("<h1>Projects</h1>")
		if len(items) == 0 {
			h.raw(`<p class="empty">No projects yet.</p>`)
		}
		for _, p := range items {
			projectCard(h, p)
		}
	})
}

func ProjectDetail(p models.Project) templ.Component {
	return component(func(h *html) {
		h.raw("<article><h1>")
		h.text(p.Title)
		h.raw("</h1>")
		if p.StartDate != nil {
			h.raw(`<p class="dates">`)
			h.text(monthYear(p.StartDate) + " - " + monthYear(p.EndDate))
			h.raw("</p>")
		}
		if p.ImageURL != "" {
			h.raw("<img")
			h.attr("src", p.ImageURL)
			h.attr("alt", p.Title)
			h.raw(">")
		}
		h.paragraphs(p.Description)
		h.raw(`<p class="links">`)
		if p.RepoURL != "" {
			h.raw("<a")
			h.attr("href", p.RepoURL)
			h.raw(">Source</a>")
		}
		if p.LiveURL != "" {
			h.raw("<a")
			h.attr("href", p.LiveURL)
			h.raw(">Live</a>")
		}
		h.raw("</p></article>")
	})
}

func BlogList(items []models.Blog) templ.Component {
	return component(func(h *html) {
		h.raw("<h1>Blog</h1>")
		if len(items) == 0 {
			h.raw(`<p class="empty">No posts yet.</p>`)
		}
		for _, b := range items {
			blogCard(h, b)
		}
	})
}

func BlogDetail(b models.Blog) templ.Component {
	return component(func(h *html) {
		h.raw("<article><h1>")
		h.text(b.Title)
		h.raw("</h1>")
		if b.PublishedAt != nil {
			h.rawf(`<time datetime="%s">`, b.PublishedAt.Format("2006-01-02"))
			h.text(b.PublishedAt.Format("Jan 2, 2006"))
			h.raw("</time>")
		}
		h.paragraphs(b.Content)
		if len(b.Tags) > 0 {
			h.raw(`<ul class="tags">`)
			for _, t := range b.Tags {
				h.raw("<li>")
				h.text(t)
				h.raw("</li>")
			}
			h.raw("</ul>")
		}
		h.raw("</article>")
	})
}

func Contact(p models.Profile) templ.Component {
	return component(func(h *html) {
		h.raw("<h1>Contact</h1>")
		if p.Email != "" {
			h.raw("<p>Email: <a")
			h.attr("href", "mailto:"+p.Email)
			h.raw(">")
			h.text(p.Email)
			h.raw("</a></p>")
		}
		h.raw(`<form id="contact" method="post" action="/api/contact">`)
		h.raw(`<input name="name" required placeholder="Name">`)
		h.raw(`<input name="email" type="email" required placeholder="Email">`)
		h.raw(`<input name="subject" placeholder="Subject">`)
		h.raw(`<input name="website" class="hp" tabindex="-1" autocomplete="off">`)
		h.raw(`<textarea name="message" required></textarea>`)
		h.raw(`<button type="submit">Send</button></form>`)
	})
}

func NotFound() templ.Component {
	return component(func(h *html) {
		h.raw(`<h1>Not found</h1><p>The page you are looking for does not exist.</p><p><a href="/">Back home</a></p>`)
	})
}
