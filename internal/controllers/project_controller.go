package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/portfolio_backend/internal/cache"
	"github.com/zaqqye/portfolio_backend/internal/models"
	"github.com/zaqqye/portfolio_backend/internal/utils"
)

type ProjectController struct {
	Base
}

type projectRequest struct {
	Title       *string      `json:"title" binding:"omitempty,min=1,max=200"`
	Slug        *string      `json:"slug" binding:"omitempty,max=100"`
	Summary     *string      `json:"summary" binding:"omitempty,max=500"`
	Description *string      `json:"description"`
	TechStack   []string     `json:"tech_stack"`
	RepoURL     *string      `json:"repo_url" binding:"omitempty,url"`
	LiveURL     *string      `json:"live_url" binding:"omitempty,url"`
	ImageURL    *string      `json:"image_url"`
	Featured    *bool        `json:"featured"`
	StartDate   OptionalDate `json:"start_date"`
	EndDate     OptionalDate `json:"end_date"`
}

func (r projectRequest) apply(p *models.Project) {
	if r.Title != nil {
		p.Title = strings.TrimSpace(*r.Title)
	}
	if r.Summary != nil {
		p.Summary = *r.Summary
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.TechStack != nil {
		p.TechStack = r.TechStack
	}
	if r.RepoURL != nil {
		p.RepoURL = *r.RepoURL
	}
	if r.LiveURL != nil {
		p.LiveURL = *r.LiveURL
	}
	if r.ImageURL != nil {
		p.ImageURL = *r.ImageURL
	}
	if r.Featured != nil {
		p.Featured = *r.Featured
	}
	r.StartDate.Apply(&p.StartDate)
	r.EndDate.Apply(&p.EndDate)
}

func projectTags(slugs ...string) []string {
	tags := []string{cache.TagProjects, cache.TagSitemap}
	for _, s := range slugs {
		if s != "" {
			tags = append(tags, cache.ProjectTag(s))
		}
	}
	return tags
}

func (pc *ProjectController) List(c *gin.Context) {
	q := pc.db(c).Order("sort_order ASC, id ASC")
	if f := c.Query("featured"); f == "true" || f == "1" {
		q = q.Where("featured = ?", true)
	}
	var items []models.Project
	if err := q.Find(&items).Error; err != nil {
		pc.fail(c, err, "failed to load projects")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (pc *ProjectController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var p models.Project
	if err := pc.db(c).First(&p, id).Error; err != nil {
		pc.fail(c, err, "failed to load project")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (pc *ProjectController) GetBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slug"})
		return
	}
	var p models.Project
	if err := pc.db(c).Where("slug = ?", slug).First(&p).Error; err != nil {
		pc.fail(c, err, "failed to load project")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (pc *ProjectController) Create(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	var p models.Project
	req.apply(&p)

	db := pc.db(c)
	want := p.Title
	if req.Slug != nil && *req.Slug != "" {
		want = *req.Slug
	}
	slug, err := uniqueSlug(db, &models.Project{}, want)
	if err != nil {
		pc.fail(c, err, "failed to create project")
		return
	}
	p.Slug = slug
	if p.SortOrder, err = nextSortOrder(db, &models.Project{}); err != nil {
		pc.fail(c, err, "failed to create project")
		return
	}
	if err := db.Create(&p).Error; err != nil {
		pc.fail(c, err, "failed to create project")
		return
	}
	pc.revalidate(projectTags(p.Slug)...)
	c.JSON(http.StatusCreated, p)
}

func (pc *ProjectController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	db := pc.db(c)
	var p models.Project
	if err := db.First(&p, id).Error; err != nil {
		pc.fail(c, err, "failed to load project")
		return
	}
	oldSlug := p.Slug
	req.apply(&p)
	if p.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	if req.Slug != nil {
		slug := utils.Slugify(*req.Slug)
		if slug == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slug"})
			return
		}
		taken, err := slugTaken(db, &models.Project{}, slug, p.ID)
		if err != nil {
			pc.fail(c, err, "failed to update project")
			return
		}
		if taken {
			c.JSON(http.StatusConflict, gin.H{"error": errSlugTaken.Error()})
			return
		}
		p.Slug = slug
	}
	if err := db.Save(&p).Error; err != nil {
		pc.fail(c, err, "failed to update project")
		return
	}
	pc.revalidate(projectTags(oldSlug, p.Slug)...)
	c.JSON(http.StatusOK, p)
}

// Delete succeeds whether or not the row existed.
func (pc *ProjectController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	db := pc.db(c)
	var p models.Project
	if err := db.Select("id", "slug").Limit(1).Find(&p, id).Error; err != nil {
		pc.fail(c, err, "failed to delete project")
		return
	}
	if err := db.Delete(&models.Project{}, id).Error; err != nil {
		pc.fail(c, err, "failed to delete project")
		return
	}
	pc.revalidate(projectTags(p.Slug)...)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (pc *ProjectController) Reorder(c *gin.Context) {
	ids, ok := bindReorder(c)
	if !ok {
		return
	}
	if err := applyOrder(c.Request.Context(), pc.DB, &models.Project{}, ids); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		pc.fail(c, err, "failed to reorder projects")
		return
	}
	pc.revalidate(cache.TagProjects)
	c.JSON(http.StatusOK, gin.H{"message": "reordered", "count": len(ids)})
}
