package repository

import (
	"context"

	"noticeboard/internal/cache"
	"noticeboard/internal/middleware"
	"noticeboard/internal/models"
	"noticeboard/internal/query"

	"gorm.io/gorm"
)

// PostFilter narrows post listings. Viewer fields drive the visibility
// gate; zero ViewerID means anonymous.
type PostFilter struct {
	Category      models.PostCategory
	AuthorID      uint
	Published     *bool
	ViewerID      uint
	ViewerIsAdmin bool
	// Unrestricted skips the visibility gate entirely (admin listings).
	Unrestricted bool
}

// PostStats summarizes the post collection for the admin dashboard.
type PostStats struct {
	TotalPosts    int64                        `json:"totalPosts"`
	Published     int64                        `json:"published"`
	Drafts        int64                        `json:"drafts"`
	TotalComments int64                        `json:"totalComments"`
	TotalLikes    int64                        `json:"totalLikes"`
	ByCategory    map[models.PostCategory]int64 `json:"byCategory"`
}

// PostRepository defines persistence operations for posts, comments, and likes.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error)
	List(ctx context.Context, filter PostFilter, params query.Params) ([]models.Post, int64, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	IncrementViewCount(ctx context.Context, id uint) error
	Stats(ctx context.Context) (*PostStats, error)

	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error

	AddComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, commentID uint) (*models.Comment, error)
	DeleteComment(ctx context.Context, commentID uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer middleware.TrackQuery("insert", "posts")()

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	defer middleware.TrackQuery("select", "posts")()

	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&post, id).Error
	if err != nil {
		return nil, mapFindError(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter, params query.Params) ([]models.Post, int64, error) {
	defer middleware.TrackQuery("select", "posts")()

	base := r.db.WithContext(ctx).Model(&models.Post{})

	if !filter.Unrestricted {
		base = base.Where("is_published = ?", true)
		switch {
		case filter.ViewerIsAdmin:
			// admins see every published post regardless of visibility
		case filter.ViewerID != 0:
			base = base.Where("visibility IN ? OR author_id = ?",
				[]models.Visibility{models.VisibilityPublic, models.VisibilityCommunity},
				filter.ViewerID)
		default:
			base = base.Where("visibility = ?", models.VisibilityPublic)
		}
	}

	if filter.Category != "" {
		base = base.Where("category = ?", filter.Category)
	}
	if filter.AuthorID != 0 {
		base = base.Where("author_id = ?", filter.AuthorID)
	}
	if filter.Published != nil {
		base = base.Where("is_published = ?", *filter.Published)
	}
	base = base.Scopes(query.Search(params.Search, "title", "content", "author_name"))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var posts []models.Post
	err := r.applyPostDetails(base, filter.ViewerID).
		Scopes(params.Sort(), params.Paginate()).
		Find(&posts).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

// applyPostDetails adds subqueries to fetch counts and liked status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS like_count"

	if viewerID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS liked",
			viewerID)
	}
	return db.Select(selectQuery + ", false AS liked")
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	defer middleware.TrackQuery("update", "posts")()

	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

// Delete removes the post together with its comments and likes in one
// transaction.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	defer middleware.TrackQuery("delete", "posts")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return mapFindError(err, "Post", id)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) IncrementViewCount(ctx context.Context, id uint) error {
	defer middleware.TrackQuery("update", "posts")()

	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + 1")).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Stats(ctx context.Context) (*PostStats, error) {
	defer middleware.TrackQuery("select", "posts")()

	var stats PostStats
	err := cache.Aside(ctx, cache.PostStatsKey, &stats, cache.StatsTTL, func() error {
		db := r.db.WithContext(ctx)

		if err := db.Model(&models.Post{}).Count(&stats.TotalPosts).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := db.Model(&models.Post{}).Where("is_published = ?", true).Count(&stats.Published).Error; err != nil {
			return models.NewInternalError(err)
		}
		stats.Drafts = stats.TotalPosts - stats.Published
		if err := db.Model(&models.Comment{}).Count(&stats.TotalComments).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := db.Model(&models.Like{}).Count(&stats.TotalLikes).Error; err != nil {
			return models.NewInternalError(err)
		}

		type categoryCount struct {
			Category models.PostCategory
			Count    int64
		}
		var rows []categoryCount
		if err := db.Model(&models.Post{}).
			Select("category, COUNT(*) AS count").
			Group("category").
			Find(&rows).Error; err != nil {
			return models.NewInternalError(err)
		}
		stats.ByCategory = make(map[models.PostCategory]int64, len(rows))
		for _, row := range rows {
			stats.ByCategory[row.Category] = row.Count
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	defer middleware.TrackQuery("select", "likes")()

	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) Like(ctx context.Context, userID, postID uint) error {
	defer middleware.TrackQuery("insert", "likes")()

	// INSERT ... ON CONFLICT DO NOTHING keeps the toggle race-safe:
	// concurrent likes collapse to a single row, last writer wins.
	err := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (user_id, post_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID,
	).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) error {
	defer middleware.TrackQuery("delete", "likes")()

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

func (r *postRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	defer middleware.TrackQuery("insert", "comments")()

	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}

func (r *postRepository) GetComment(ctx context.Context, commentID uint) (*models.Comment, error) {
	defer middleware.TrackQuery("select", "comments")()

	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, commentID).Error; err != nil {
		return nil, mapFindError(err, "Comment", commentID)
	}
	return &comment, nil
}

func (r *postRepository) DeleteComment(ctx context.Context, commentID uint) error {
	defer middleware.TrackQuery("delete", "comments")()

	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, commentID).Error; err != nil {
		return mapFindError(err, "Comment", commentID)
	}
	if err := r.db.WithContext(ctx).Delete(&models.Comment{}, commentID).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}
