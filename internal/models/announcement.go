package models

import "time"

// AnnouncementCategory is the closed set of announcement categories.
type AnnouncementCategory string

const (
	AnnouncementCategoryGeneral AnnouncementCategory = "general"
	AnnouncementCategoryRules   AnnouncementCategory = "rules"
	AnnouncementCategoryEvents  AnnouncementCategory = "events"
	AnnouncementCategoryUpdates AnnouncementCategory = "updates"
	AnnouncementCategoryOther   AnnouncementCategory = "other"
)

// AnnouncementCategories lists valid categories in display order.
var AnnouncementCategories = []AnnouncementCategory{
	AnnouncementCategoryGeneral,
	AnnouncementCategoryRules,
	AnnouncementCategoryEvents,
	AnnouncementCategoryUpdates,
	AnnouncementCategoryOther,
}

// ValidAnnouncementCategory reports whether c is a known category.
func ValidAnnouncementCategory(c AnnouncementCategory) bool {
	for _, v := range AnnouncementCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Priority ranks an announcement's urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities lists valid priorities in ascending order of urgency.
var Priorities = []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p Priority) bool {
	for _, v := range Priorities {
		if v == p {
			return true
		}
	}
	return false
}

// Announcement is a community-wide notice. Only admins and moderators may
// create or mutate announcements.
type Announcement struct {
	ID          uint                 `gorm:"primaryKey" json:"id"`
	Title       string               `gorm:"size:200;not null" json:"title"`
	Content     string               `gorm:"type:text;not null" json:"content"`
	Category    AnnouncementCategory `gorm:"type:varchar(30);not null;index" json:"category"`
	Priority    Priority             `gorm:"type:varchar(20);not null;default:'normal';index" json:"priority"`
	AuthorID    uint                 `gorm:"not null;index" json:"authorId"`
	AuthorName  string               `gorm:"not null" json:"authorName"`
	IsPublished bool                 `gorm:"default:true;index" json:"isPublished"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}
