package models

import "time"

// SiteConfig is the singleton row holding the admin credential and
// integration settings. AdminPasswordHash is never serialized.
type SiteConfig struct {
	ID                uint      `gorm:"primaryKey" json:"-"`
	AdminEmail        string    `gorm:"not null" json:"admin_email"`
	AdminPasswordHash string    `gorm:"not null" json:"-"`
	GitHubOwner       string    `gorm:"column:github_owner" json:"github_owner"`
	GitHubRepo        string    `gorm:"column:github_repo" json:"github_repo"`
	GitHubBranch      string    `gorm:"column:github_branch" json:"github_branch"`
	ReadmePath        string    `json:"readme_path"`
	ContactRecipient  string    `json:"contact_recipient"`
	AIDailyLimit      int       `gorm:"column:ai_daily_limit" json:"ai_daily_limit"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (SiteConfig) TableName() string { return portfolioTable("config") }
