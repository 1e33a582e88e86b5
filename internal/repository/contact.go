package repository

import (
	"context"

	"noticeboard/internal/middleware"
	"noticeboard/internal/models"
	"noticeboard/internal/query"

	"gorm.io/gorm"
)

// ContactFilter narrows directory listings.
type ContactFilter struct {
	Department string
	Tag        string
	IsActive   *bool
}

// ContactStats summarizes the directory for the overview endpoint.
type ContactStats struct {
	TotalContacts    int64            `json:"totalContacts"`
	ActiveContacts   int64            `json:"activeContacts"`
	InactiveContacts int64            `json:"inactiveContacts"`
	ByDepartment     map[string]int64 `json:"byDepartment"`
	ByTag            map[string]int64 `json:"byTag"`
	RecentContacts   []models.Contact `json:"recentContacts"`
}

// ContactRepository defines persistence operations for directory contacts.
type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	GetByID(ctx context.Context, id uint) (*models.Contact, error)
	List(ctx context.Context, filter ContactFilter, params query.Params) ([]models.Contact, int64, error)
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, id uint) error
	Stats(ctx context.Context) (*ContactStats, error)
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository returns a new ContactRepository implementation.
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *models.Contact) error {
	defer middleware.TrackQuery("insert", "contacts")()

	if err := r.db.WithContext(ctx).Create(contact).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *contactRepository) GetByID(ctx context.Context, id uint) (*models.Contact, error) {
	defer middleware.TrackQuery("select", "contacts")()

	var contact models.Contact
	if err := r.db.WithContext(ctx).First(&contact, id).Error; err != nil {
		return nil, mapFindError(err, "Contact", id)
	}
	return &contact, nil
}

func (r *contactRepository) List(ctx context.Context, filter ContactFilter, params query.Params) ([]models.Contact, int64, error) {
	defer middleware.TrackQuery("select", "contacts")()

	base := r.db.WithContext(ctx).Model(&models.Contact{})
	if filter.Department != "" {
		base = base.Where("department = ?", filter.Department)
	}
	if filter.Tag != "" {
		// Tags are stored as a JSON array; substring match against the
		// serialized form is portable across postgres and sqlite.
		base = base.Where("tags LIKE ?", "%\""+filter.Tag+"\"%")
	}
	if filter.IsActive != nil {
		base = base.Where("is_active = ?", *filter.IsActive)
	}
	base = base.Scopes(query.Search(params.Search, "name", "email", "company", "position"))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var contacts []models.Contact
	if err := base.Scopes(params.Sort(), params.Paginate()).Find(&contacts).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return contacts, total, nil
}

func (r *contactRepository) Update(ctx context.Context, contact *models.Contact) error {
	defer middleware.TrackQuery("update", "contacts")()

	if err := r.db.WithContext(ctx).Save(contact).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *contactRepository) Delete(ctx context.Context, id uint) error {
	defer middleware.TrackQuery("delete", "contacts")()

	res := r.db.WithContext(ctx).Delete(&models.Contact{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Contact", id)
	}
	return nil
}

func (r *contactRepository) Stats(ctx context.Context) (*ContactStats, error) {
	defer middleware.TrackQuery("select", "contacts")()

	stats := ContactStats{
		ByDepartment: make(map[string]int64),
		ByTag:        make(map[string]int64),
	}
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Contact{}).Count(&stats.TotalContacts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := db.Model(&models.Contact{}).Where("is_active = ?", true).Count(&stats.ActiveContacts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	stats.InactiveContacts = stats.TotalContacts - stats.ActiveContacts

	type deptCount struct {
		Department string
		Count      int64
	}
	var depts []deptCount
	if err := db.Model(&models.Contact{}).
		Select("department, COUNT(*) AS count").
		Group("department").
		Scan(&depts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, dc := range depts {
		dept := dc.Department
		if dept == "" {
			dept = "Unspecified"
		}
		stats.ByDepartment[dept] = dc.Count
	}

	// Tags are a serialized JSON column; tallying happens in memory.
	var tagged []models.Contact
	if err := db.Model(&models.Contact{}).Select("id", "tags").Find(&tagged).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, c := range tagged {
		for _, tag := range c.Tags {
			stats.ByTag[tag]++
		}
	}

	if err := db.Model(&models.Contact{}).
		Order("created_at DESC, id DESC").
		Limit(5).
		Find(&stats.RecentContacts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &stats, nil
}
