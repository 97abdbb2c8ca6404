package models

import "time"

type Experience struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Company     string     `gorm:"not null" json:"company"`
	Role        string     `gorm:"not null" json:"role"`
	Location    string     `json:"location"`
	Description string     `gorm:"type:text" json:"description"`
	StartDate   *time.Time `gorm:"type:date" json:"start_date"`
	EndDate     *time.Time `gorm:"type:date" json:"end_date"` // nil while current
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Experience) TableName() string { return portfolioTable("experience") }
