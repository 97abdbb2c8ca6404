package github

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaqqye/portfolio_backend/internal/models"
	"github.com/zaqqye/portfolio_backend/internal/testutil"
)

func date(y int, m time.Month) *time.Time {
	t := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestRenderReadme(t *testing.T) {
	out := RenderReadme(ReadmeData{
		SiteURL: "https://jane.dev",
		Profile: models.Profile{Name: "Jane Doe", Headline: "Backend engineer", Bio: "I build things.", Email: "jane@example.com"},
		Skills: []models.Skill{
			{Name: "Go", Category: "Languages"},
			{Name: "SQL", Category: "Languages"},
			{Name: "Docker"},
		},
		Projects: []models.Project{
			{Title: "Alpha", Slug: "alpha", SortOrder: 0},
			{Title: "Beta", Slug: "beta", SortOrder: 1, Featured: true, RepoURL: "https://github.com/jane/beta", TechStack: []string{"Go"}},
		},
		Experience: []models.Experience{{Company: "Acme", Role: "Engineer", StartDate: date(2022, time.March)}},
		Blogs:      []models.Blog{{Title: "Hello", Slug: "hello"}},
	})

	assert.True(t, strings.HasPrefix(out, "# Jane Doe\n\n**Backend engineer**\n"))
	assert.Contains(t, out, "[Website](https://jane.dev) · [Email](mailto:jane@example.com)")
	assert.Contains(t, out, "- **Languages**: Go, SQL\n- **Other**: Docker\n")
	assert.Contains(t, out, "- Engineer at Acme (Mar 2022 - Present)")
	assert.Contains(t, out, "- [Hello](https://jane.dev/blogs/hello)")

	beta := strings.Index(out, "[Beta](https://github.com/jane/beta) ⭐ `Go`")
	alpha := strings.Index(out, "[Alpha](https://jane.dev/projects/alpha)")
	require.GreaterOrEqual(t, beta, 0)
	require.GreaterOrEqual(t, alpha, 0)
	assert.Less(t, beta, alpha, "featured projects come first")
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.False(t, strings.HasSuffix(out, "\n\n"))
}

func TestRenderReadme_Empty(t *testing.T) {
	assert.Equal(t, "# Hi there\n", RenderReadme(ReadmeData{}))
}

func TestLoadReadmeData(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, db.Create(&models.Profile{ID: models.SingletonID, Name: "Jane"}).Error)
	require.NoError(t, db.Create(&models.Project{Title: "Second", Slug: "second", SortOrder: 1}).Error)
	require.NoError(t, db.Create(&models.Project{Title: "First", Slug: "first", SortOrder: 0}).Error)
	require.NoError(t, db.Create(&models.Blog{Title: "Draft", Slug: "draft"}).Error)
	require.NoError(t, db.Create(&models.Blog{Title: "Live", Slug: "live", Published: true}).Error)

	d, err := LoadReadmeData(context.Background(), db, "https://jane.dev/")
	require.NoError(t, err)
	assert.Equal(t, "Jane", d.Profile.Name)
	assert.Equal(t, "https://jane.dev", d.SiteURL)
	require.Len(t, d.Projects, 2)
	assert.Equal(t, "first", d.Projects[0].Slug)
	require.Len(t, d.Blogs, 1)
	assert.Equal(t, "live", d.Blogs[0].Slug)
}
