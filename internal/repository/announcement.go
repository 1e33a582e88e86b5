package repository

import (
	"context"

	"noticeboard/internal/cache"
	"noticeboard/internal/middleware"
	"noticeboard/internal/models"
	"noticeboard/internal/query"

	"gorm.io/gorm"
)

// AnnouncementFilter narrows announcement listings.
type AnnouncementFilter struct {
	Category  models.AnnouncementCategory
	Priority  models.Priority
	Published *bool
}

// AnnouncementRepository defines persistence operations for announcements.
type AnnouncementRepository interface {
	Create(ctx context.Context, a *models.Announcement) error
	GetByID(ctx context.Context, id uint) (*models.Announcement, error)
	List(ctx context.Context, filter AnnouncementFilter, params query.Params) ([]models.Announcement, int64, error)
	Update(ctx context.Context, a *models.Announcement) error
	Delete(ctx context.Context, id uint) error
}

type announcementRepository struct {
	db *gorm.DB
}

// NewAnnouncementRepository returns a new AnnouncementRepository implementation.
func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, a *models.Announcement) error {
	defer middleware.TrackQuery("insert", "announcements")()

	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *announcementRepository) GetByID(ctx context.Context, id uint) (*models.Announcement, error) {
	defer middleware.TrackQuery("select", "announcements")()

	var a models.Announcement
	err := cache.Aside(ctx, cache.AnnouncementKey(id), &a, cache.AnnouncementTTL, func() error {
		if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
			return mapFindError(err, "Announcement", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *announcementRepository) List(ctx context.Context, filter AnnouncementFilter, params query.Params) ([]models.Announcement, int64, error) {
	defer middleware.TrackQuery("select", "announcements")()

	base := r.db.WithContext(ctx).Model(&models.Announcement{})
	if filter.Category != "" {
		base = base.Where("category = ?", filter.Category)
	}
	if filter.Priority != "" {
		base = base.Where("priority = ?", filter.Priority)
	}
	if filter.Published != nil {
		base = base.Where("is_published = ?", *filter.Published)
	}
	base = base.Scopes(query.Search(params.Search, "title", "content"))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var items []models.Announcement
	if err := base.Scopes(params.Sort(), params.Paginate()).Find(&items).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return items, total, nil
}

func (r *announcementRepository) Update(ctx context.Context, a *models.Announcement) error {
	defer middleware.TrackQuery("update", "announcements")()

	if err := r.db.WithContext(ctx).Save(a).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateAnnouncement(ctx, a.ID)
	return nil
}

func (r *announcementRepository) Delete(ctx context.Context, id uint) error {
	defer middleware.TrackQuery("delete", "announcements")()

	res := r.db.WithContext(ctx).Delete(&models.Announcement{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Announcement", id)
	}
	cache.InvalidateAnnouncement(ctx, id)
	return nil
}
