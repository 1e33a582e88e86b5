package repository

import (
	"context"
	"time"

	"noticeboard/internal/cache"
	"noticeboard/internal/middleware"
	"noticeboard/internal/models"
	"noticeboard/internal/query"

	"gorm.io/gorm"
)

// EventFilter narrows event listings.
type EventFilter struct {
	Type      models.EventType
	Status    models.EventStatus
	Published *bool
	// From keeps only events starting at or after the given instant.
	From *time.Time
}

// EventRepository defines persistence operations for events.
type EventRepository interface {
	Create(ctx context.Context, e *models.Event) error
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	List(ctx context.Context, filter EventFilter, params query.Params) ([]models.Event, int64, error)
	Update(ctx context.Context, e *models.Event) error
	Delete(ctx context.Context, id uint) error
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository returns a new EventRepository implementation.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, e *models.Event) error {
	defer middleware.TrackQuery("insert", "events")()

	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	defer middleware.TrackQuery("select", "events")()

	var e models.Event
	err := cache.Aside(ctx, cache.EventKey(id), &e, cache.EventTTL, func() error {
		if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
			return mapFindError(err, "Event", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventRepository) List(ctx context.Context, filter EventFilter, params query.Params) ([]models.Event, int64, error) {
	defer middleware.TrackQuery("select", "events")()

	base := r.db.WithContext(ctx).Model(&models.Event{})
	if filter.Type != "" {
		base = base.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		base = base.Where("status = ?", filter.Status)
	}
	if filter.Published != nil {
		base = base.Where("is_published = ?", *filter.Published)
	}
	if filter.From != nil {
		base = base.Where("starts_at >= ?", *filter.From)
	}
	base = base.Scopes(query.Search(params.Search, "title", "description", "location"))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var items []models.Event
	if err := base.Scopes(params.Sort(), params.Paginate()).Find(&items).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return items, total, nil
}

func (r *eventRepository) Update(ctx context.Context, e *models.Event) error {
	defer middleware.TrackQuery("update", "events")()

	if err := r.db.WithContext(ctx).Save(e).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateEvent(ctx, e.ID)
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id uint) error {
	defer middleware.TrackQuery("delete", "events")()

	res := r.db.WithContext(ctx).Delete(&models.Event{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Event", id)
	}
	cache.InvalidateEvent(ctx, id)
	return nil
}
