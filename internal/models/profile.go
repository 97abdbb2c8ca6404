package models

import "time"

type Profile struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `json:"name"`
	Headline    string    `json:"headline"`
	Bio         string    `gorm:"type:text" json:"bio"`
	Location    string    `json:"location"`
	Email       string    `json:"email"`
	AvatarURL   string    `json:"avatar_url"`
	ResumeURL   string    `json:"resume_url"`
	GitHubURL   string    `gorm:"column:github_url" json:"github_url"`
	LinkedInURL string    `gorm:"column:linkedin_url" json:"linkedin_url"`
	WebsiteURL  string    `json:"website_url"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Profile) TableName() string { return portfolioTable("profile") }
