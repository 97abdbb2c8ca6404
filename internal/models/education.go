package models

import "time"

type Education struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Institution string     `gorm:"not null" json:"institution"`
	Degree      string     `json:"degree"`
	Field       string     `json:"field"`
	Description string     `gorm:"type:text" json:"description"`
	StartDate   *time.Time `gorm:"type:date" json:"start_date"`
	EndDate     *time.Time `gorm:"type:date" json:"end_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Education) TableName() string { return portfolioTable("education") }
