// Package seed populates the database with demo data for development
// environments. It is never invoked in production.
package seed

import (
	"fmt"
	"log"
	"strings"

	"noticeboard/internal/database"
	"noticeboard/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options controls how much data the seeder generates.
type Options struct {
	Users       int
	Posts       int
	ShouldClean bool
}

// DefaultPassword is the login password for every generated account.
const DefaultPassword = "password123"

// Run wipes (optionally) and repopulates the database with generated
// users, posts, announcements, events, listings and contacts.
func Run(db *gorm.DB, opts Options) error {
	if opts.Users <= 0 {
		opts.Users = 25
	}
	if opts.Posts <= 0 {
		opts.Posts = 100
	}

	if opts.ShouldClean {
		if err := Clean(db); err != nil {
			return err
		}
	}

	f := NewFactory(db)

	users, err := f.Users(opts.Users)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	log.Printf("seeded %d users (password %q)", len(users), DefaultPassword)

	moderators := make([]*models.User, 0, len(users))
	for _, u := range users {
		if u.IsModeratorOrAdmin() {
			moderators = append(moderators, u)
		}
	}

	if err := f.Posts(users, opts.Posts); err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}
	if err := f.Announcements(moderators, opts.Users/3+1); err != nil {
		return fmt.Errorf("seed announcements: %w", err)
	}
	if err := f.Events(moderators, opts.Users/3+1); err != nil {
		return fmt.Errorf("seed events: %w", err)
	}
	if err := f.MarketplaceItems(users, opts.Users); err != nil {
		return fmt.Errorf("seed marketplace: %w", err)
	}
	if err := f.Contacts(users, opts.Users); err != nil {
		return fmt.Errorf("seed contacts: %w", err)
	}

	log.Println("seeding complete")
	return nil
}

// Clean removes all application data. Tables are truncated in reverse
// dependency order so foreign keys never dangle.
func Clean(db *gorm.DB) error {
	all := database.AllModels()
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(all[i]).Error; err != nil {
			return fmt.Errorf("clean tables: %w", err)
		}
	}
	return nil
}

// EnsureAdmin creates (or reactivates) an admin account with the given
// credentials. Existing accounts keep their password.
func EnsureAdmin(db *gorm.DB, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("admin email and password are required")
	}

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == nil {
		if err := db.Model(&user).Updates(map[string]any{
			"role":      models.RoleAdmin,
			"is_active": true,
		}).Error; err != nil {
			return nil, err
		}
		user.Role = models.RoleAdmin
		user.IsActive = true
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	user = models.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "Admin",
		LastName:  "Account",
		Role:      models.RoleAdmin,
		IsActive:  true,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
