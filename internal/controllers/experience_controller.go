package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/portfolio_backend/internal/cache"
	"github.com/zaqqye/portfolio_backend/internal/models"
)

type ExperienceController struct {
	Base
}

type experienceRequest struct {
	Company     *string      `json:"company"`
	Role        *string      `json:"role"`
	Location    *string      `json:"location"`
	Description *string      `json:"description"`
	StartDate   OptionalDate `json:"start_date"`
	EndDate     OptionalDate `json:"end_date"`
}

func (r experienceRequest) apply(e *models.Experience) {
	if r.Company != nil {
		e.Company = *r.Company
	}
	if r.Role != nil {
		e.Role = *r.Role
	}
	if r.Location != nil {
		e.Location = *r.Location
	}
	if r.Description != nil {
		e.Description = *r.Description
	}
	r.StartDate.Apply(&e.StartDate)
	r.EndDate.Apply(&e.EndDate)
}

func (ec *ExperienceController) List(c *gin.Context) {
	var items []models.Experience
	if err := ec.db(c).Order("start_date DESC, id DESC").Find(&items).Error; err != nil {
		ec.fail(c, err, "failed to load experience")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (ec *ExperienceController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var e models.Experience
	if err := ec.db(c).First(&e, id).Error; err != nil {
		ec.fail(c, err, "failed to load experience")
		return
	}
	c.JSON(http.StatusOK, e)
}

func (ec *ExperienceController) Create(c *gin.Context) {
	var req experienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Company == nil || *req.Company == "" || req.Role == nil || *req.Role == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company and role are required"})
		return
	}
	var e models.Experience
	req.apply(&e)
	if err := ec.db(c).Create(&e).Error; err != nil {
		ec.fail(c, err, "failed to create experience")
		return
	}
	ec.revalidate(cache.TagExperience)
	c.JSON(http.StatusCreated, e)
}

func (ec *ExperienceController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req experienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var e models.Experience
	if err := ec.db(c).First(&e, id).Error; err != nil {
		ec.fail(c, err, "failed to load experience")
		return
	}
	req.apply(&e)
	if e.Company == "" || e.Role == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company and role are required"})
		return
	}
	if err := ec.db(c).Save(&e).Error; err != nil {
		ec.fail(c, err, "failed to update experience")
		return
	}
	ec.revalidate(cache.TagExperience)
	c.JSON(http.StatusOK, e)
}

// Delete succeeds whether or not the row existed.
func (ec *ExperienceController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ec.db(c).Delete(&models.Experience{}, id).Error; err != nil {
		ec.fail(c, err, "failed to delete experience")
		return
	}
	ec.revalidate(cache.TagExperience)
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
