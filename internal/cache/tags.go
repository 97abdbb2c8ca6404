package cache

// Revalidation tags. Collection tags cover list pages; item tags cover a
// single detail page.
const (
	TagProfile    = "profile"
	TagExperience = "experience"
	TagEducation  = "education"
	TagSkills     = "skills"
	TagProjects   = "projects"
	TagBlogs      = "blogs"
	TagUIConfig   = "ui-config"
	TagSitemap    = "sitemap"
)

func ProjectTag(slug string) string { return "project:" + slug }

func BlogTag(slug string) string { return "blog:" + slug }
