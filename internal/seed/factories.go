package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"noticeboard/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds and persists generated domain entities.
type Factory struct {
	db   *gorm.DB
	rng  *rand.Rand
	hash string
}

// NewFactory creates a Factory bound to db. All generated accounts share
// one bcrypt hash of DefaultPassword so large seeds stay fast.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		// bcrypt only fails on invalid cost; MinCost is always valid.
		panic(err)
	}
	return &Factory{
		db:   db,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
		hash: string(hash),
	}
}

// pastTime returns a random instant within the last maxDays days.
func (f *Factory) pastTime(maxDays int) time.Time {
	return time.Now().
		Add(-time.Duration(f.rng.Intn(maxDays*24)) * time.Hour).
		Add(-time.Duration(f.rng.Intn(60)) * time.Minute)
}

func pick[T any](rng *rand.Rand, values []T) T {
	return values[rng.Intn(len(values))]
}

// Users creates n accounts: one admin, a couple of moderators, the rest
// regular members. Emails are unique by construction.
func (f *Factory) Users(n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		role := models.RoleUser
		switch {
		case i == 0:
			role = models.RoleAdmin
		case i <= n/10:
			role = models.RoleModerator
		}

		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		user := &models.User{
			Email:     strings.ToLower(fmt.Sprintf("%s.%s%d@example.com", first, last, i)),
			Password:  f.hash,
			FirstName: first,
			LastName:  last,
			Role:      role,
			IsActive:  true,
			CreatedAt: f.pastTime(365),
		}
		if f.rng.Intn(3) == 0 {
			user.Avatar = fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID())
		}
		if err := f.db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// Posts creates n posts spread across the given authors, mostly public
// and published with a sprinkling of community, private and draft posts.
func (f *Factory) Posts(authors []*models.User, n int) error {
	visibilities := []models.Visibility{
		models.VisibilityPublic, models.VisibilityPublic, models.VisibilityPublic,
		models.VisibilityCommunity, models.VisibilityPrivate,
	}
	for i := 0; i < n; i++ {
		author := pick(f.rng, authors)
		post := &models.Post{
			Title:       gofakeit.Sentence(f.rng.Intn(5) + 3),
			Content:     gofakeit.Paragraph(1, 3, 12, "\n"),
			Category:    pick(f.rng, models.PostCategories),
			Visibility:  pick(f.rng, visibilities),
			AuthorID:    author.ID,
			AuthorName:  author.FullName(),
			AuthorRole:  author.Role,
			IsPublished: f.rng.Intn(10) != 0,
			ViewCount:   f.rng.Intn(500),
			CreatedAt:   f.pastTime(90),
		}
		if f.rng.Intn(2) == 0 {
			post.Tags = []string{gofakeit.BuzzWord(), gofakeit.BuzzWord()}
		}
		if err := f.db.Create(post).Error; err != nil {
			return err
		}

		for c := 0; c < f.rng.Intn(4); c++ {
			commenter := pick(f.rng, authors)
			comment := &models.Comment{
				PostID:     post.ID,
				AuthorID:   commenter.ID,
				AuthorName: commenter.FullName(),
				Content:    gofakeit.Sentence(f.rng.Intn(10) + 3),
			}
			if err := f.db.Create(comment).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// Announcements creates n announcements authored by moderation accounts.
func (f *Factory) Announcements(moderators []*models.User, n int) error {
	if len(moderators) == 0 {
		return nil
	}
	for i := 0; i < n; i++ {
		author := pick(f.rng, moderators)
		announcement := &models.Announcement{
			Title:       gofakeit.Sentence(f.rng.Intn(4) + 3),
			Content:     gofakeit.Paragraph(1, 2, 10, "\n"),
			Category:    pick(f.rng, models.AnnouncementCategories),
			Priority:    pick(f.rng, models.Priorities),
			AuthorID:    author.ID,
			AuthorName:  author.FullName(),
			IsPublished: f.rng.Intn(5) != 0,
			CreatedAt:   f.pastTime(60),
		}
		if err := f.db.Create(announcement).Error; err != nil {
			return err
		}
	}
	return nil
}

// Events creates n events, roughly half upcoming and half in the past.
func (f *Factory) Events(organizers []*models.User, n int) error {
	if len(organizers) == 0 {
		return nil
	}
	for i := 0; i < n; i++ {
		organizer := pick(f.rng, organizers)

		starts := time.Now().Add(time.Duration(f.rng.Intn(60*24)-30*24) * time.Hour)
		status := models.EventStatusUpcoming
		if starts.Before(time.Now()) {
			status = models.EventStatusCompleted
		}
		ends := starts.Add(time.Duration(f.rng.Intn(4)+1) * time.Hour)

		event := &models.Event{
			Title:         gofakeit.Sentence(f.rng.Intn(4) + 2),
			Description:   gofakeit.Paragraph(1, 2, 10, "\n"),
			Type:          pick(f.rng, models.EventTypes),
			Status:        status,
			StartsAt:      starts,
			EndsAt:        &ends,
			Location:      gofakeit.City(),
			IsOnline:      f.rng.Intn(3) == 0,
			MaxAttendees:  f.rng.Intn(100),
			OrganizerID:   organizer.ID,
			OrganizerName: organizer.FullName(),
			IsPublished:   f.rng.Intn(5) != 0,
		}
		if err := f.db.Create(event).Error; err != nil {
			return err
		}
	}
	return nil
}

// MarketplaceItems creates n listings; most are already approved.
func (f *Factory) MarketplaceItems(sellers []*models.User, n int) error {
	for i := 0; i < n; i++ {
		seller := pick(f.rng, sellers)
		item := &models.MarketplaceItem{
			Title:       gofakeit.ProductName(),
			Description: gofakeit.ProductDescription(),
			Price:       float64(f.rng.Intn(49900)+100) / 100,
			Currency:    "USD",
			Category:    pick(f.rng, models.MarketplaceCategories),
			Condition:   pick(f.rng, models.Conditions),
			SellerID:    seller.ID,
			SellerName:  seller.FullName(),
			Location:    gofakeit.City(),
			IsAvailable: f.rng.Intn(5) != 0,
			IsApproved:  f.rng.Intn(4) != 0,
			CreatedAt:   f.pastTime(45),
		}
		if f.rng.Intn(2) == 0 {
			item.Images = []string{
				fmt.Sprintf("https://picsum.photos/seed/%s/640/480", gofakeit.UUID()),
			}
		}
		if err := f.db.Create(item).Error; err != nil {
			return err
		}
	}
	return nil
}

// Contacts creates n directory entries attributed to random creators.
func (f *Factory) Contacts(creators []*models.User, n int) error {
	for i := 0; i < n; i++ {
		creator := pick(f.rng, creators)
		name := gofakeit.Name()
		contact := &models.Contact{
			Name:        name,
			Email:       strings.ToLower(fmt.Sprintf("%s%d@%s", strings.ReplaceAll(name, " ", "."), i, gofakeit.DomainName())),
			Phone:       gofakeit.Phone(),
			Company:     gofakeit.Company(),
			Position:    gofakeit.JobTitle(),
			Department:  pick(f.rng, models.Departments),
			Location:    gofakeit.City(),
			Notes:       gofakeit.Sentence(8),
			IsActive:    f.rng.Intn(10) != 0,
			CreatedBy:   creator.FullName(),
			CreatedByID: creator.ID,
		}
		if f.rng.Intn(2) == 0 {
			contact.Tags = []string{pick(f.rng, models.ContactTags)}
		}
		if err := f.db.Create(contact).Error; err != nil {
			return err
		}
	}
	return nil
}
