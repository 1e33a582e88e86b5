package models

import "time"

// Departments lists the known contact departments in display order.
var Departments = []string{
	"Engineering",
	"Marketing",
	"Sales",
	"HR",
	"Finance",
	"Operations",
	"Other",
}

// ContactTags lists the known contact tags in display order.
var ContactTags = []string{
	"developer",
	"senior",
	"frontend",
	"backend",
	"manager",
	"lead",
	"junior",
}

// Contact is a community directory entry. The whole resource requires
// authentication; mutation requires the creator or a moderation role.
type Contact struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;index" json:"name"`
	Email       string    `gorm:"not null" json:"email"`
	Phone       string    `json:"phone"`
	Company     string    `json:"company"`
	Position    string    `json:"position"`
	Department  string    `gorm:"size:50;index" json:"department"`
	Location    string    `json:"location"`
	Tags        []string  `gorm:"serializer:json" json:"tags"`
	Notes       string    `gorm:"type:text" json:"notes"`
	IsActive    bool      `gorm:"default:true;index" json:"isActive"`
	CreatedBy   string    `gorm:"not null" json:"createdBy"`
	CreatedByID uint      `gorm:"not null;index" json:"createdById"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
