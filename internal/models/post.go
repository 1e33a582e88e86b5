package models

import (
	"time"
)

// PostCategory is the closed set of post categories.
type PostCategory string

const (
	PostCategoryGeneral      PostCategory = "general"
	PostCategoryAnnouncement PostCategory = "announcement"
	PostCategoryEvent        PostCategory = "event"
	PostCategoryMarketplace  PostCategory = "marketplace"
	PostCategoryQuestion     PostCategory = "question"
	PostCategoryDiscussion   PostCategory = "discussion"
)

// PostCategories lists all valid post categories in display order.
var PostCategories = []PostCategory{
	PostCategoryGeneral,
	PostCategoryAnnouncement,
	PostCategoryEvent,
	PostCategoryMarketplace,
	PostCategoryQuestion,
	PostCategoryDiscussion,
}

// ValidPostCategory reports whether c is a known category.
func ValidPostCategory(c PostCategory) bool {
	for _, v := range PostCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Visibility is the post-level access tier gating read access.
type Visibility string

const (
	// VisibilityPublic posts are readable by anyone, including anonymous callers.
	VisibilityPublic Visibility = "public"
	// VisibilityCommunity posts are readable by any authenticated user.
	VisibilityCommunity Visibility = "community"
	// VisibilityPrivate posts are readable only by their author or an admin.
	VisibilityPrivate Visibility = "private"
)

// ValidVisibility reports whether v is a known visibility tier.
func ValidVisibility(v Visibility) bool {
	switch v {
	case VisibilityPublic, VisibilityCommunity, VisibilityPrivate:
		return true
	}
	return false
}

// Post represents a community post. Author fields are denormalized from the
// authenticated identity at creation time and never taken from client input.
type Post struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Title       string       `gorm:"size:200;not null" json:"title"`
	Content     string       `gorm:"type:text;not null" json:"content"`
	Category    PostCategory `gorm:"type:varchar(30);not null;index" json:"category"`
	Visibility  Visibility   `gorm:"type:varchar(20);not null;default:'public';index" json:"visibility"`
	AuthorID    uint         `gorm:"not null;index" json:"authorId"`
	AuthorName  string       `gorm:"not null" json:"authorName"`
	AuthorRole  Role         `gorm:"type:varchar(20);not null" json:"authorRole"`
	Tags        []string     `gorm:"serializer:json" json:"tags"`
	IsPublished bool         `gorm:"default:true;index" json:"isPublished"`
	ViewCount   int          `gorm:"default:0" json:"viewCount"`
	// LikeCount is not persisted; computed at query time.
	LikeCount int `gorm:"->" json:"likeCount"`
	// CommentCount is not persisted; computed at query time.
	CommentCount int `gorm:"->" json:"commentCount"`
	// Liked indicates whether the requesting user liked this post (computed).
	Liked     bool      `gorm:"->" json:"liked"`
	Comments  []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Comment is a sub-entity of a post with no independent lifecycle.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PostID     uint      `gorm:"not null;index" json:"postId"`
	AuthorID   uint      `gorm:"not null" json:"authorId"`
	AuthorName string    `gorm:"not null" json:"authorName"`
	Content    string    `gorm:"size:1000;not null" json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Like records a user's like on a post. The (UserID, PostID) pair is unique,
// giving the likes list set semantics.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"userId"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}
