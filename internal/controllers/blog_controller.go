package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/portfolio_backend/internal/cache"
	"github.com/zaqqye/portfolio_backend/internal/middleware"
	"github.com/zaqqye/portfolio_backend/internal/models"
	"github.com/zaqqye/portfolio_backend/internal/utils"
)

type BlogController struct {
	Base
	Now func() time.Time
}

type blogRequest struct {
	Title     *string  `json:"title" binding:"omitempty,min=1,max=200"`
	Slug      *string  `json:"slug" binding:"omitempty,max=100"`
	Excerpt   *string  `json:"excerpt" binding:"omitempty,max=500"`
	Content   *string  `json:"content"`
	Tags      []string `json:"tags"`
	Published *bool    `json:"published"`
}

func (bc *BlogController) now() time.Time {
	if bc.Now != nil {
		return bc.Now().UTC()
	}
	return time.Now().UTC()
}

func (bc *BlogController) apply(r blogRequest, b *models.Blog) {
	if r.Title != nil {
		b.Title = strings.TrimSpace(*r.Title)
	}
	if r.Excerpt != nil {
		b.Excerpt = *r.Excerpt
	}
	if r.Content != nil {
		b.Content = *r.Content
	}
	if r.Tags != nil {
		b.Tags = r.Tags
	}
	if r.Published != nil {
		b.Published = *r.Published
		// First publication stamps the date; unpublishing keeps it.
		if b.Published && b.PublishedAt == nil {
			t := bc.now()
			b.PublishedAt = &t
		}
	}
}

func blogTags(slugs ...string) []string {
	tags := []string{cache.TagBlogs, cache.TagSitemap}
	for _, s := range slugs {
		if s != "" {
			tags = append(tags, cache.BlogTag(s))
		}
	}
	return tags
}

// List returns published posts, or every post for an authenticated admin.
func (bc *BlogController) List(c *gin.Context) {
	q := bc.db(c).Order("sort_order ASC, id ASC")
	if !middleware.IsAdmin(c) {
		q = q.Where("published = ?", true)
	}
	if tag := strings.TrimSpace(c.Query("tag")); tag != "" {
		q = q.Where("CAST(tags AS TEXT) LIKE ?", "%\""+tag+"\"%")
	}
	var items []models.Blog
	if err := q.Find(&items).Error; err != nil {
		bc.fail(c, err, "failed to load blogs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (bc *BlogController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var b models.Blog
	if err := bc.db(c).First(&b, id).Error; err != nil {
		bc.fail(c, err, "failed to load blog")
		return
	}
	if !b.Published && !middleware.IsAdmin(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, b)
}

func (bc *BlogController) GetBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slug"})
		return
	}
	var b models.Blog
	if err := bc.db(c).Where("slug = ?", slug).First(&b).Error; err != nil {
		bc.fail(c, err, "failed to load blog")
		return
	}
	if !b.Published && !middleware.IsAdmin(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, b)
}

func (bc *BlogController) Create(c *gin.Context) {
	var req blogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	var b models.Blog
	bc.apply(req, &b)

	db := bc.db(c)
	want := b.Title
	if req.Slug != nil && *req.Slug != "" {
		want = *req.Slug
	}
	slug, err := uniqueSlug(db, &models.Blog{}, want)
	if err != nil {
		bc.fail(c, err, "failed to create blog")
		return
	}
	b.Slug = slug
	if b.SortOrder, err = nextSortOrder(db, &models.Blog{}); err != nil {
		bc.fail(c, err, "failed to create blog")
		return
	}
	if err := db.Create(&b).Error; err != nil {
		bc.fail(c, err, "failed to create blog")
		return
	}
	bc.revalidate(blogTags(b.Slug)...)
	c.JSON(http.StatusCreated, b)
}

func (bc *BlogController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req blogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	db := bc.db(c)
	var b models.Blog
	if err := db.First(&b, id).Error; err != nil {
		bc.fail(c, err, "failed to load blog")
		return
	}
	oldSlug := b.Slug
	bc.apply(req, &b)
	if b.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	if req.Slug != nil {
		slug := utils.Slugify(*req.Slug)
		if slug == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slug"})
			return
		}
		taken, err := slugTaken(db, &models.Blog{}, slug, b.ID)
		if err != nil {
			bc.fail(c, err, "failed to update blog")
			return
		}
		if taken {
			c.JSON(http.StatusConflict, gin.H{"error": errSlugTaken.Error()})
			return
		}
		b.Slug = slug
	}
	if err := db.Save(&b).Error; err != nil {
		bc.fail(c, err, "failed to update blog")
		return
	}
	bc.revalidate(blogTags(oldSlug, b.Slug)...)
	c.JSON(http.StatusOK, b)
}

func (bc *BlogController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	db := bc.db(c)
	var b models.Blog
	if err := db.Select("id", "slug").Limit(1).Find(&b, id).Error; err != nil {
		bc.fail(c, err, "failed to delete blog")
		return
	}
	if err := db.Delete(&models.Blog{}, id).Error; err != nil {
		bc.fail(c, err, "failed to delete blog")
		return
	}
	bc.revalidate(blogTags(b.Slug)...)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (bc *BlogController) Reorder(c *gin.Context) {
	ids, ok := bindReorder(c)
	if !ok {
		return
	}
	if err := applyOrder(c.Request.Context(), bc.DB, &models.Blog{}, ids); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		bc.fail(c, err, "failed to reorder blogs")
		return
	}
	bc.revalidate(cache.TagBlogs)
	c.JSON(http.StatusOK, gin.H{"message": "reordered", "count": len(ids)})
}
