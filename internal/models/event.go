package models

import "time"

// EventType is the closed set of event types.
type EventType string

const (
	EventTypeMeetup     EventType = "meetup"
	EventTypeWorkshop   EventType = "workshop"
	EventTypeConference EventType = "conference"
	EventTypeWebinar    EventType = "webinar"
	EventTypeOther      EventType = "other"
)

// EventTypes lists valid event types in display order.
var EventTypes = []EventType{
	EventTypeMeetup,
	EventTypeWorkshop,
	EventTypeConference,
	EventTypeWebinar,
	EventTypeOther,
}

// ValidEventType reports whether t is a known event type.
func ValidEventType(t EventType) bool {
	for _, v := range EventTypes {
		if v == t {
			return true
		}
	}
	return false
}

// EventStatus tracks an event through its lifecycle.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// EventStatuses lists valid statuses in lifecycle order.
var EventStatuses = []EventStatus{
	EventStatusDraft,
	EventStatusUpcoming,
	EventStatusOngoing,
	EventStatusCompleted,
	EventStatusCancelled,
}

// ValidEventStatus reports whether s is a known status.
func ValidEventStatus(s EventStatus) bool {
	for _, v := range EventStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Event is a scheduled community event. Only admins and moderators may
// create or mutate events.
type Event struct {
	ID               uint        `gorm:"primaryKey" json:"id"`
	Title            string      `gorm:"size:200;not null" json:"title"`
	Description      string      `gorm:"type:text;not null" json:"description"`
	Type             EventType   `gorm:"type:varchar(30);not null;index" json:"type"`
	Status           EventStatus `gorm:"type:varchar(20);not null;default:'upcoming';index" json:"status"`
	StartsAt         time.Time   `gorm:"not null;index" json:"startsAt"`
	EndsAt           *time.Time  `json:"endsAt,omitempty"`
	Location         string      `json:"location"`
	IsOnline         bool        `gorm:"default:false" json:"isOnline"`
	MaxAttendees     int         `gorm:"default:0" json:"maxAttendees"`
	CurrentAttendees int         `gorm:"default:0" json:"currentAttendees"`
	OrganizerID      uint        `gorm:"not null;index" json:"organizerId"`
	OrganizerName    string      `gorm:"not null" json:"organizerName"`
	IsPublished      bool        `gorm:"default:true;index" json:"isPublished"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}
