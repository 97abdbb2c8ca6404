package models

import "time"

// AIUsage counts AI requests per client per day. ClientKey is a hash of the
// client address, never the address itself.
type AIUsage struct {
	ID        uint   `gorm:"primaryKey"`
	ClientKey string `gorm:"uniqueIndex:ai_usage_client_day_key,priority:1;not null"`
	Kind      string `gorm:"uniqueIndex:ai_usage_client_day_key,priority:2;not null"`
	Day       string `gorm:"uniqueIndex:ai_usage_client_day_key,priority:3;size:10;not null"`
	Count     int    `gorm:"not null;default:0"`
	Notified  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (AIUsage) TableName() string { return auditTable("ai_usage") }
