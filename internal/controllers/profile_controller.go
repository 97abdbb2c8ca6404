package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zaqqye/portfolio_backend/internal/cache"
	"github.com/zaqqye/portfolio_backend/internal/models"
)

type ProfileController struct {
	Base
}

type profileRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=120"`
	Headline    *string `json:"headline" binding:"omitempty,max=200"`
	Bio         *string `json:"bio"`
	Location    *string `json:"location"`
	Email       *string `json:"email" binding:"omitempty,email"`
	AvatarURL   *string `json:"avatar_url"`
	ResumeURL   *string `json:"resume_url"`
	GitHubURL   *string `json:"github_url" binding:"omitempty,url"`
	LinkedInURL *string `json:"linkedin_url" binding:"omitempty,url"`
	WebsiteURL  *string `json:"website_url" binding:"omitempty,url"`
}

func (r profileRequest) apply(p *models.Profile) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.Name, r.Name)
	set(&p.Headline, r.Headline)
	set(&p.Bio, r.Bio)
	set(&p.Location, r.Location)
	set(&p.Email, r.Email)
	set(&p.AvatarURL, r.AvatarURL)
	set(&p.ResumeURL, r.ResumeURL)
	set(&p.GitHubURL, r.GitHubURL)
	set(&p.LinkedInURL, r.LinkedInURL)
	set(&p.WebsiteURL, r.WebsiteURL)
}

func (pc *ProfileController) Get(c *gin.Context) {
	var p models.Profile
	if err := pc.db(c).Limit(1).Find(&p, models.SingletonID).Error; err != nil {
		pc.fail(c, err, "failed to load profile")
		return
	}
	p.ID = models.SingletonID
	c.JSON(http.StatusOK, p)
}

// Update upserts the singleton row.
func (pc *ProfileController) Update(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var p models.Profile
	err := pc.db(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Limit(1).Find(&p, models.SingletonID).Error; err != nil {
			return err
		}
		p.ID = models.SingletonID
		req.apply(&p)
		return tx.Save(&p).Error
	})
	if err != nil {
		pc.fail(c, err, "failed to update profile")
		return
	}
	pc.revalidate(cache.TagProfile)
	c.JSON(http.StatusOK, p)
}
