package models

import "time"

// ActivityLog records an authenticated mutation for the admin audit trail.
type ActivityLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"userId"`
	UserName   string    `gorm:"not null" json:"userName"`
	Action     string    `gorm:"size:10;not null" json:"action"`
	Resource   string    `gorm:"size:50;not null;index" json:"resource"`
	ResourceID string    `json:"resourceId"`
	IP         string    `json:"ip"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
}
