package github

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/zaqqye/portfolio_backend/internal/models"
)

// ReadmeData is everything the profile README shows.
type ReadmeData struct {
	Profile    models.Profile
	Skills     []models.Skill
	Projects   []models.Project
	Experience []models.Experience
	Blogs      []models.Blog
	SiteURL    string
}

func LoadReadmeData(ctx context.Context, db *gorm.DB, siteURL string) (ReadmeData, error) {
	d := ReadmeData{SiteURL: strings.TrimRight(siteURL, "/")}
	q := db.WithContext(ctx)
	if err := q.Limit(1).Find(&d.Profile, models.SingletonID).Error; err != nil {
		return d, fmt.Errorf("load profile: %w", err)
	}
	if err := q.Order("category, name").Find(&d.Skills).Error; err != nil {
		return d, fmt.Errorf("load skills: %w", err)
	}
	if err := q.Order("sort_order ASC, id ASC").Find(&d.Projects).Error; err != nil {
		return d, fmt.Errorf("load projects: %w", err)
	}
	if err := q.Order("start_date DESC, id DESC").Limit(3).Find(&d.Experience).Error; err != nil {
		return d, fmt.Errorf("load experience: %w", err)
	}
	if err := q.Where("published = ?", true).Order("sort_order ASC, id ASC").Limit(5).Find(&d.Blogs).Error; err != nil {
		return d, fmt.Errorf("load blogs: %w", err)
	}
	return d, nil
}

// RenderReadme produces the GitHub profile README. Featured projects are
// listed first, each group in sort order.
func RenderReadme(d ReadmeData) string {
	var b strings.Builder

	name := d.Profile.Name
	if name == "" {
		name = "Hi there"
	}
	fmt.Fprintf(&b, "# %s\n\n", name)
	if d.Profile.Headline != "" {
		fmt.Fprintf(&b, "**%s**\n\n", d.Profile.Headline)
	}
	if d.Profile.Bio != "" {
		fmt.Fprintf(&b, "%s\n\n", strings.TrimSpace(d.Profile.Bio))
	}

	links := []string{}
	if d.SiteURL != "" {
		links = append(links, fmt.Sprintf("[Website](%s)", d.SiteURL))
	}
	if d.Profile.LinkedInURL != "" {
		links = append(links, fmt.Sprintf("[LinkedIn](%s)", d.Profile.LinkedInURL))
	}
	if d.Profile.Email != "" {
		links = append(links, fmt.Sprintf("[Email](mailto:%s)", d.Profile.Email))
	}
	if len(links) > 0 {
		b.WriteString(strings.Join(links, " · "))
		b.WriteString("\n\n")
	}

	if len(d.Skills) > 0 {
		b.WriteString("## Skills\n\n")
		var categories []string
		byCat := map[string][]string{}
		for _, s := range d.Skills {
			cat := s.Category
			if cat == "" {
				cat = "Other"
			}
			if _, ok := byCat[cat]; !ok {
				categories = append(categories, cat)
			}
			byCat[cat] = append(byCat[cat], s.Name)
		}
		for _, cat := range categories {
			fmt.Fprintf(&b, "- **%s**: %s\n", cat, strings.Join(byCat[cat], ", "))
		}
		b.WriteString("\n")
	}

	if len(d.Projects) > 0 {
		b.WriteString("## Projects\n\n")
		projects := append([]models.Project(nil), d.Projects...)
		sort.SliceStable(projects, func(i, j int) bool {
			return projects[i].Featured && !projects[j].Featured
		})
		for _, p := range projects {
			title := p.Title
			switch {
			case p.RepoURL != "":
				title = fmt.Sprintf("[%s](%s)", p.Title, p.RepoURL)
			case d.SiteURL != "":
				title = fmt.Sprintf("[%s](%s/projects/%s)", p.Title, d.SiteURL, p.Slug)
			}
			line := "- " + title
			if p.Featured {
				line += " ⭐"
			}
			if p.Summary != "" {
				line += ": " + p.Summary
			}
			if len(p.TechStack) > 0 {
				line += fmt.Sprintf(" `%s`", strings.Join(p.TechStack, "` `"))
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	if len(d.Experience) > 0 {
		b.WriteString("## Experience\n\n")
		for _, e := range d.Experience {
			fmt.Fprintf(&b, "- %s at %s (%s)\n", e.Role, e.Company, dateRange(e.StartDate, e.EndDate))
		}
		b.WriteString("\n")
	}

	if len(d.Blogs) > 0 && d.SiteURL != "" {
		b.WriteString("## Latest writing\n\n")
		for _, p := range d.Blogs {
			fmt.Fprintf(&b, "- [%s](%s/blogs/%s)\n", p.Title, d.SiteURL, p.Slug)
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}
