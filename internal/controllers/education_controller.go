package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/portfolio_backend/internal/cache"
	"github.com/zaqqye/portfolio_backend/internal/models"
)

type EducationController struct {
	Base
}

type educationRequest struct {
	Institution *string      `json:"institution"`
	Degree      *string      `json:"degree"`
	Field       *string      `json:"field"`
	Description *string      `json:"description"`
	StartDate   OptionalDate `json:"start_date"`
	EndDate     OptionalDate `json:"end_date"`
}

func (r educationRequest) apply(e *models.Education) {
	if r.Institution != nil {
		e.Institution = *r.Institution
	}
	if r.Degree != nil {
		e.Degree = *r.Degree
	}
	if r.Field != nil {
		e.Field = *r.Field
	}
	if r.Description != nil {
		e.Description = *r.Description
	}
	r.StartDate.Apply(&e.StartDate)
	r.EndDate.Apply(&e.EndDate)
}

func (ec *EducationController) List(c *gin.Context) {
	var items []models.Education
	if err := ec.db(c).Order("start_date DESC, id DESC").Find(&items).Error; err != nil {
		ec.fail(c, err, "failed to load education")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (ec *EducationController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var e models.Education
	if err := ec.db(c).First(&e, id).Error; err != nil {
		ec.fail(c, err, "failed to load education")
		return
	}
	c.JSON(http.StatusOK, e)
}

func (ec *EducationController) Create(c *gin.Context) {
	var req educationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Institution == nil || *req.Institution == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "institution is required"})
		return
	}
	var e models.Education
	req.apply(&e)
	if err := ec.db(c).Create(&e).Error; err != nil {
		ec.fail(c, err, "failed to create education")
		return
	}
	ec.revalidate(cache.TagEducation)
	c.JSON(http.StatusCreated, e)
}

func (ec *EducationController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req educationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var e models.Education
	if err := ec.db(c).First(&e, id).Error; err != nil {
		ec.fail(c, err, "failed to load education")
		return
	}
	req.apply(&e)
	if e.Institution == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "institution is required"})
		return
	}
	if err := ec.db(c).Save(&e).Error; err != nil {
		ec.fail(c, err, "failed to update education")
		return
	}
	ec.revalidate(cache.TagEducation)
	c.JSON(http.StatusOK, e)
}

func (ec *EducationController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ec.db(c).Delete(&models.Education{}, id).Error; err != nil {
		ec.fail(c, err, "failed to delete education")
		return
	}
	ec.revalidate(cache.TagEducation)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
