package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/portfolio_backend/internal/cache"
	"github.com/zaqqye/portfolio_backend/internal/models"
)

type SkillController struct {
	Base
}

type createSkillRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Category string `json:"category" binding:"max=100"`
	Level    int    `json:"level" binding:"min=0,max=100"`
}

type updateSkillRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
	Category *string `json:"category" binding:"omitempty,max=100"`
	Level    *int    `json:"level" binding:"omitempty,min=0,max=100"`
}

func (sc *SkillController) List(c *gin.Context) {
	q := sc.db(c).Order("category ASC, name ASC")
	if cat := c.Query("category"); cat != "" {
		q = q.Where("category = ?", cat)
	}
	var items []models.Skill
	if err := q.Find(&items).Error; err != nil {
		sc.fail(c, err, "failed to load skills")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (sc *SkillController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var s models.Skill
	if err := sc.db(c).First(&s, id).Error; err != nil {
		sc.fail(c, err, "failed to load skill")
		return
	}
	c.JSON(http.StatusOK, s)
}

func (sc *SkillController) Create(c *gin.Context) {
	var req createSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := models.Skill{Name: req.Name, Category: req.Category, Level: req.Level}
	if err := sc.db(c).Create(&s).Error; err != nil {
		sc.fail(c, err, "failed to create skill")
		return
	}
	sc.revalidate(cache.TagSkills)
	c.JSON(http.StatusCreated, s)
}

func (sc *SkillController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req updateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var s models.Skill
	if err := sc.db(c).First(&s, id).Error; err != nil {
		sc.fail(c, err, "failed to load skill")
		return
	}
	if req.Name != nil {
		s.Name = *req.Name
	}
	if req.Category != nil {
		s.Category = *req.Category
	}
	if req.Level != nil {
		s.Level = *req.Level
	}
	if err := sc.db(c).Save(&s).Error; err != nil {
		sc.fail(c, err, "failed to update skill")
		return
	}
	sc.revalidate(cache.TagSkills)
	c.JSON(http.StatusOK, s)
}

func (sc *SkillController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := sc.db(c).Delete(&models.Skill{}, id).Error; err != nil {
		sc.fail(c, err, "failed to delete skill")
		return
	}
	sc.revalidate(cache.TagSkills)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
