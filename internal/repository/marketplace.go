package repository

import (
	"context"

	"noticeboard/internal/middleware"
	"noticeboard/internal/models"
	"noticeboard/internal/query"

	"gorm.io/gorm"
)

// MarketplaceFilter narrows marketplace listings.
type MarketplaceFilter struct {
	Category  models.MarketplaceCategory
	Condition models.Condition
	SellerID  uint
	MinPrice  *float64
	MaxPrice  *float64
	// ApprovedOnly limits results to approved, still-available items
	// (the public listing view).
	ApprovedOnly bool
}

// MarketplaceRepository defines persistence operations for marketplace items.
type MarketplaceRepository interface {
	Create(ctx context.Context, item *models.MarketplaceItem) error
	GetByID(ctx context.Context, id uint) (*models.MarketplaceItem, error)
	List(ctx context.Context, filter MarketplaceFilter, params query.Params) ([]models.MarketplaceItem, int64, error)
	Update(ctx context.Context, item *models.MarketplaceItem) error
	Delete(ctx context.Context, id uint) error
	SetApproved(ctx context.Context, id uint, approved bool) error
}

type marketplaceRepository struct {
	db *gorm.DB
}

// NewMarketplaceRepository returns a new MarketplaceRepository implementation.
func NewMarketplaceRepository(db *gorm.DB) MarketplaceRepository {
	return &marketplaceRepository{db: db}
}

func (r *marketplaceRepository) Create(ctx context.Context, item *models.MarketplaceItem) error {
	defer middleware.TrackQuery("insert", "marketplace_items")()

	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *marketplaceRepository) GetByID(ctx context.Context, id uint) (*models.MarketplaceItem, error) {
	defer middleware.TrackQuery("select", "marketplace_items")()

	var item models.MarketplaceItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, mapFindError(err, "Marketplace item", id)
	}
	return &item, nil
}

func (r *marketplaceRepository) List(ctx context.Context, filter MarketplaceFilter, params query.Params) ([]models.MarketplaceItem, int64, error) {
	defer middleware.TrackQuery("select", "marketplace_items")()

	base := r.db.WithContext(ctx).Model(&models.MarketplaceItem{})
	if filter.ApprovedOnly {
		base = base.Where("is_approved = ? AND is_available = ?", true, true)
	}
	if filter.Category != "" {
		base = base.Where("category = ?", filter.Category)
	}
	if filter.Condition != "" {
		base = base.Where("condition = ?", filter.Condition)
	}
	if filter.SellerID != 0 {
		base = base.Where("seller_id = ?", filter.SellerID)
	}
	if filter.MinPrice != nil {
		base = base.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		base = base.Where("price <= ?", *filter.MaxPrice)
	}
	base = base.Scopes(query.Search(params.Search, "title", "description", "location"))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var items []models.MarketplaceItem
	if err := base.Scopes(params.Sort(), params.Paginate()).Find(&items).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return items, total, nil
}

func (r *marketplaceRepository) Update(ctx context.Context, item *models.MarketplaceItem) error {
	defer middleware.TrackQuery("update", "marketplace_items")()

	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *marketplaceRepository) Delete(ctx context.Context, id uint) error {
	defer middleware.TrackQuery("delete", "marketplace_items")()

	res := r.db.WithContext(ctx).Delete(&models.MarketplaceItem{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Marketplace item", id)
	}
	return nil
}

func (r *marketplaceRepository) SetApproved(ctx context.Context, id uint, approved bool) error {
	defer middleware.TrackQuery("update", "marketplace_items")()

	res := r.db.WithContext(ctx).Model(&models.MarketplaceItem{}).
		Where("id = ?", id).
		Update("is_approved", approved)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Marketplace item", id)
	}
	return nil
}
