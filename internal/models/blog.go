package models

import (
	"time"

	"gorm.io/datatypes"
)

type Blog struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	Title       string                      `gorm:"not null" json:"title"`
	Slug        string                      `gorm:"uniqueIndex:blogs_slug_key;not null" json:"slug"`
	Excerpt     string                      `json:"excerpt"`
	Content     string                      `gorm:"type:text" json:"content"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	Published   bool                        `json:"published"`
	PublishedAt *time.Time                  `json:"published_at"`
	SortOrder   int                         `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

func (Blog) TableName() string { return portfolioTable("blogs") }
