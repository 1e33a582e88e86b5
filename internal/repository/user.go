package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"noticeboard/internal/cache"
	"noticeboard/internal/middleware"
	"noticeboard/internal/models"
	"noticeboard/internal/query"

	"gorm.io/gorm"
)

// UserFilter narrows user listings.
type UserFilter struct {
	Role     models.Role
	IsActive *bool
}

// UserStats summarizes the member roster for the admin dashboard.
type UserStats struct {
	TotalUsers    int64                 `json:"totalUsers"`
	ActiveUsers   int64                 `json:"activeUsers"`
	InactiveUsers int64                 `json:"inactiveUsers"`
	ByRole        map[models.Role]int64 `json:"byRole"`
	RecentUsers   []models.User         `json:"recentUsers"`
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	SetActive(ctx context.Context, id uint, active bool) error
	SetRole(ctx context.Context, id uint, role models.Role) error
	List(ctx context.Context, filter UserFilter, params query.Params) ([]models.User, int64, error)
	Stats(ctx context.Context) (*UserStats, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	defer middleware.TrackQuery("select", "users")()

	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			return mapFindError(err, "User", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail performs a case-insensitive lookup. It returns (nil, nil)
// when no user matches.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer middleware.TrackQuery("select", "users")()

	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer middleware.TrackQuery("insert", "users")()

	user.Email = strings.ToLower(user.Email)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("A user with this email already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	defer middleware.TrackQuery("update", "users")()

	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("A user with this email already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	defer middleware.TrackQuery("update", "users")()

	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login", at).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

func (r *userRepository) SetActive(ctx context.Context, id uint, active bool) error {
	defer middleware.TrackQuery("update", "users")()

	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

func (r *userRepository) SetRole(ctx context.Context, id uint, role models.Role) error {
	defer middleware.TrackQuery("update", "users")()

	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("role", role)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

func (r *userRepository) List(ctx context.Context, filter UserFilter, params query.Params) ([]models.User, int64, error) {
	defer middleware.TrackQuery("select", "users")()

	base := r.db.WithContext(ctx).Model(&models.User{})
	if filter.Role != "" {
		base = base.Where("role = ?", filter.Role)
	}
	if filter.IsActive != nil {
		base = base.Where("is_active = ?", *filter.IsActive)
	}
	base = base.Scopes(query.Search(params.Search, "email", "first_name", "last_name"))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var users []models.User
	if err := base.Scopes(params.Sort(), params.Paginate()).Find(&users).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return users, total, nil
}

func (r *userRepository) Stats(ctx context.Context) (*UserStats, error) {
	defer middleware.TrackQuery("select", "users")()

	stats := UserStats{ByRole: make(map[models.Role]int64)}
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := db.Model(&models.User{}).Where("is_active = ?", true).Count(&stats.ActiveUsers).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	stats.InactiveUsers = stats.TotalUsers - stats.ActiveUsers

	type roleCount struct {
		Role  models.Role
		Count int64
	}
	var roles []roleCount
	if err := db.Model(&models.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Scan(&roles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, rc := range roles {
		stats.ByRole[rc.Role] = rc.Count
	}

	if err := db.Model(&models.User{}).
		Order("created_at DESC, id DESC").
		Limit(5).
		Find(&stats.RecentUsers).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &stats, nil
}
