// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Role is the coarse authorization tier attached to a user identity.
type Role string

const (
	// RoleUser is the default role for registered members.
	RoleUser Role = "user"
	// RoleModerator can manage announcements, events and marketplace approvals.
	RoleModerator Role = "moderator"
	// RoleAdmin has full access, including user administration.
	RoleAdmin Role = "admin"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered member of the community.
// Users are never hard-deleted; admin deletion flips IsActive instead.
type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"not null" json:"-"`
	FirstName string     `gorm:"size:50;not null" json:"firstName"`
	LastName  string     `gorm:"size:50;not null" json:"lastName"`
	Role      Role       `gorm:"type:varchar(20);default:'user';index" json:"role"`
	IsActive  bool       `gorm:"default:true;index" json:"isActive"`
	Avatar    string     `json:"avatar,omitempty"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// FullName returns the user's display name as denormalized onto resources.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsModeratorOrAdmin reports whether the user holds a moderation-capable role.
func (u *User) IsModeratorOrAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleModerator
}
