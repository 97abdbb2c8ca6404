package models

import (
	"time"

	"gorm.io/datatypes"
)

type UIConfig struct {
	ID          uint           `gorm:"primaryKey" json:"-"`
	Theme       string         `gorm:"default:system" json:"theme"`
	AccentColor string         `json:"accent_color"`
	ShowBlog    bool           `json:"show_blog"`
	ShowContact bool           `json:"show_contact"`
	Settings    datatypes.JSON `json:"settings"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (UIConfig) TableName() string { return portfolioTable("ui_config") }
