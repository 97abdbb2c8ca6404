package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session records every login attempt. Successful ones carry the token jti
// as their ID; logout sets RevokedAt.
type Session struct {
	ID        string     `gorm:"type:uuid;primaryKey"`
	IPAddress string     `gorm:"column:ip_address"`
	UserAgent string
	Success   bool
	CreatedAt time.Time
	ExpiresAt *time.Time
	RevokedAt *time.Time
}

func (Session) TableName() string { return auditTable("sessions") }

func (s *Session) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
