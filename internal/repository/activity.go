package repository

import (
	"context"

	"noticeboard/internal/middleware"
	"noticeboard/internal/models"
	"noticeboard/internal/query"

	"gorm.io/gorm"
)

// ActivityFilter narrows audit-trail listings.
type ActivityFilter struct {
	UserID   uint
	Resource string
	Action   string
}

// ActivityRepository defines persistence operations for the audit trail.
type ActivityRepository interface {
	Record(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, filter ActivityFilter, params query.Params) ([]models.ActivityLog, int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository returns a new ActivityRepository implementation.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Record(ctx context.Context, entry *models.ActivityLog) error {
	defer middleware.TrackQuery("insert", "activity_logs")()

	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *activityRepository) List(ctx context.Context, filter ActivityFilter, params query.Params) ([]models.ActivityLog, int64, error) {
	defer middleware.TrackQuery("select", "activity_logs")()

	base := r.db.WithContext(ctx).Model(&models.ActivityLog{})
	if filter.UserID != 0 {
		base = base.Where("user_id = ?", filter.UserID)
	}
	if filter.Resource != "" {
		base = base.Where("resource = ?", filter.Resource)
	}
	if filter.Action != "" {
		base = base.Where("action = ?", filter.Action)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var entries []models.ActivityLog
	if err := base.Scopes(params.Sort(), params.Paginate()).Find(&entries).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return entries, total, nil
}
