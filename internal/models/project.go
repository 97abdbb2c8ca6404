package models

import (
	"time"

	"gorm.io/datatypes"
)

type Project struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	Title       string                      `gorm:"not null" json:"title"`
	Slug        string                      `gorm:"uniqueIndex:projects_slug_key;not null" json:"slug"`
	Summary     string                      `json:"summary"`
	Description string                      `gorm:"type:text" json:"description"`
	TechStack   datatypes.JSONSlice[string] `json:"tech_stack"`
	RepoURL     string                      `json:"repo_url"`
	LiveURL     string                      `json:"live_url"`
	ImageURL    string                      `json:"image_url"`
	Featured    bool                        `json:"featured"`
	StartDate   *time.Time                  `gorm:"type:date" json:"start_date"`
	EndDate     *time.Time                  `gorm:"type:date" json:"end_date"`
	SortOrder   int                         `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

func (Project) TableName() string { return portfolioTable("projects") }
