// Package service holds the business rules sitting between handlers
// and repositories.
package service

import (
	"context"
	"strings"

	"noticeboard/internal/models"
	"noticeboard/internal/query"
	"noticeboard/internal/repository"
)

const (
	maxTitleLen   = 200
	maxContentLen = 5000
	maxCommentLen = 1000
)

// PostService implements post, comment, and like business rules.
type PostService struct {
	postRepo repository.PostRepository
}

// NewPostService returns a PostService backed by the given repository.
func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// CreatePostInput carries client-supplied post fields. Author identity is
// always taken from the authenticated user, never from the payload.
type CreatePostInput struct {
	Title       string
	Content     string
	Category    string
	Visibility  string
	Tags        []string
	IsPublished *bool
}

// ListPostsInput selects and pages a post listing for a given viewer.
type ListPostsInput struct {
	Params   query.Params
	Category string
	AuthorID uint
	// Viewer is nil for anonymous requests.
	Viewer *models.User
	// Unrestricted skips the visibility gate (admin listing).
	Unrestricted bool
}

// UpdatePostInput carries partial update fields; nil means "leave unchanged".
type UpdatePostInput struct {
	Title       *string
	Content     *string
	Category    *string
	Visibility  *string
	Tags        *[]string
	IsPublished *bool
}

func (s *PostService) CreatePost(ctx context.Context, author *models.User, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 5000 characters)")
	}

	category := models.PostCategory(in.Category)
	if in.Category == "" {
		category = models.PostCategoryGeneral
	}
	if !models.ValidPostCategory(category) {
		return nil, models.NewValidationError("Invalid category")
	}

	visibility := models.Visibility(in.Visibility)
	if in.Visibility == "" {
		visibility = models.VisibilityPublic
	}
	if !models.ValidVisibility(visibility) {
		return nil, models.NewValidationError("Invalid visibility")
	}

	published := true
	if in.IsPublished != nil {
		published = *in.IsPublished
	}

	post := &models.Post{
		Title:       title,
		Content:     in.Content,
		Category:    category,
		Visibility:  visibility,
		AuthorID:    author.ID,
		AuthorName:  author.FullName(),
		AuthorRole:  author.Role,
		Tags:        in.Tags,
		IsPublished: published,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, author.ID)
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]models.Post, query.Pagination, error) {
	filter := repository.PostFilter{
		Category:     models.PostCategory(in.Category),
		AuthorID:     in.AuthorID,
		Unrestricted: in.Unrestricted,
	}
	if in.Category != "" && !models.ValidPostCategory(filter.Category) {
		return nil, query.Pagination{}, models.NewValidationError("Invalid category")
	}
	if in.Viewer != nil {
		filter.ViewerID = in.Viewer.ID
		filter.ViewerIsAdmin = in.Viewer.IsAdmin()
	}

	posts, total, err := s.postRepo.List(ctx, filter, in.Params)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	return posts, query.NewPagination(total, in.Params), nil
}

// GetPost returns a single post, enforcing the visibility gate and
// counting the view.
func (s *PostService) GetPost(ctx context.Context, id uint, viewer *models.User) (*models.Post, error) {
	var viewerID uint
	if viewer != nil {
		viewerID = viewer.ID
	}

	post, err := s.postRepo.GetByID(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(post, viewer); err != nil {
		return nil, err
	}

	if err := s.postRepo.IncrementViewCount(ctx, id); err == nil {
		post.ViewCount++
	}
	return post, nil
}

func (s *PostService) authorizeRead(post *models.Post, viewer *models.User) error {
	switch post.Visibility {
	case models.VisibilityPublic:
		return nil
	case models.VisibilityCommunity:
		if viewer == nil {
			return models.NewUnauthorizedError("Authentication required")
		}
		return nil
	default: // private
		if viewer != nil && (viewer.ID == post.AuthorID || viewer.IsAdmin()) {
			return nil
		}
		return models.NewForbiddenError("You do not have access to this post")
	}
}

func (s *PostService) UpdatePost(ctx context.Context, actor *models.User, postID uint, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, actor.ID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actor.ID && !actor.IsAdmin() {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, models.NewValidationError("Title cannot be empty")
		}
		if len(title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 200 characters)")
		}
		post.Title = title
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, models.NewValidationError("Content cannot be empty")
		}
		if len(*in.Content) > maxContentLen {
			return nil, models.NewValidationError("Content too long (max 5000 characters)")
		}
		post.Content = *in.Content
	}
	if in.Category != nil {
		category := models.PostCategory(*in.Category)
		if !models.ValidPostCategory(category) {
			return nil, models.NewValidationError("Invalid category")
		}
		post.Category = category
	}
	if in.Visibility != nil {
		visibility := models.Visibility(*in.Visibility)
		if !models.ValidVisibility(visibility) {
			return nil, models.NewValidationError("Invalid visibility")
		}
		post.Visibility = visibility
	}
	if in.Tags != nil {
		post.Tags = *in.Tags
	}
	if in.IsPublished != nil {
		post.IsPublished = *in.IsPublished
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, actor *models.User, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, actor.ID)
	if err != nil {
		return err
	}
	if post.AuthorID != actor.ID && !actor.IsAdmin() {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

// ToggleLike flips the caller's like on a post and returns the post with
// the refreshed like state.
func (s *PostService) ToggleLike(ctx context.Context, actor *models.User, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(post, actor); err != nil {
		return nil, err
	}

	liked, err := s.postRepo.IsLiked(ctx, actor.ID, postID)
	if err != nil {
		return nil, err
	}
	if liked {
		err = s.postRepo.Unlike(ctx, actor.ID, postID)
	} else {
		err = s.postRepo.Like(ctx, actor.ID, postID)
	}
	if err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID, actor.ID)
}

func (s *PostService) AddComment(ctx context.Context, actor *models.User, postID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 1000 characters)")
	}

	post, err := s.postRepo.GetByID(ctx, postID, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(post, actor); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:     postID,
		AuthorID:   actor.ID,
		AuthorName: actor.FullName(),
		Content:    content,
	}
	if err := s.postRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *PostService) DeleteComment(ctx context.Context, actor *models.User, postID, commentID uint) error {
	comment, err := s.postRepo.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.PostID != postID {
		return models.NewNotFoundError("Comment", commentID)
	}
	if comment.AuthorID != actor.ID && !actor.IsAdmin() {
		return models.NewForbiddenError("You can only delete your own comments")
	}
	return s.postRepo.DeleteComment(ctx, commentID)
}

// Stats returns the admin dashboard summary.
func (s *PostService) Stats(ctx context.Context) (*repository.PostStats, error) {
	return s.postRepo.Stats(ctx)
}
