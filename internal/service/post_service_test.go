package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"noticeboard/internal/models"
	"noticeboard/internal/query"
	"noticeboard/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uint, uint) (*models.Post, error)
	listFn          func(context.Context, repository.PostFilter, query.Params) ([]models.Post, int64, error)
	updateFn        func(context.Context, *models.Post) error
	deleteFn        func(context.Context, uint) error
	incrementViewFn func(context.Context, uint) error
	statsFn         func(context.Context) (*repository.PostStats, error)
	isLikedFn       func(context.Context, uint, uint) (bool, error)
	likeFn          func(context.Context, uint, uint) error
	unlikeFn        func(context.Context, uint, uint) error
	addCommentFn    func(context.Context, *models.Comment) error
	getCommentFn    func(context.Context, uint) (*models.Comment, error)
	deleteCommentFn func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, viewerID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, viewerID)
}
func (s *postRepoStub) List(ctx context.Context, filter repository.PostFilter, params query.Params) ([]models.Post, int64, error) {
	return s.listFn(ctx, filter, params)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) IncrementViewCount(ctx context.Context, id uint) error {
	return s.incrementViewFn(ctx, id)
}
func (s *postRepoStub) Stats(ctx context.Context) (*repository.PostStats, error) {
	return s.statsFn(ctx)
}
func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) error {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) error {
	return s.unlikeFn(ctx, userID, postID)
}
func (s *postRepoStub) AddComment(ctx context.Context, comment *models.Comment) error {
	return s.addCommentFn(ctx, comment)
}
func (s *postRepoStub) GetComment(ctx context.Context, commentID uint) (*models.Comment, error) {
	return s.getCommentFn(ctx, commentID)
}
func (s *postRepoStub) DeleteComment(ctx context.Context, commentID uint) error {
	return s.deleteCommentFn(ctx, commentID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn: func(_ context.Context, _ repository.PostFilter, _ query.Params) ([]models.Post, int64, error) {
			return nil, 0, nil
		},
		updateFn:        func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		incrementViewFn: func(_ context.Context, _ uint) error { return nil },
		statsFn:         func(_ context.Context) (*repository.PostStats, error) { return &repository.PostStats{}, nil },
		isLikedFn:       func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		likeFn:          func(_ context.Context, _, _ uint) error { return nil },
		unlikeFn:        func(_ context.Context, _, _ uint) error { return nil },
		addCommentFn:    func(_ context.Context, _ *models.Comment) error { return nil },
		getCommentFn:    func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		deleteCommentFn: func(_ context.Context, _ uint) error { return nil },
	}
}

func member(id uint) *models.User {
	return &models.User{ID: id, FirstName: "Test", LastName: "Member", Role: models.RoleUser, IsActive: true}
}

func admin(id uint) *models.User {
	u := member(id)
	u.Role = models.RoleAdmin
	return u
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestCreatePostDerivesAuthorFromIdentity(t *testing.T) {
	repo := noopPostRepo()
	var created *models.Post
	repo.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 11
		created = p
		return nil
	}
	svc := NewPostService(repo)

	author := member(7)
	_, err := svc.CreatePost(context.Background(), author, CreatePostInput{
		Title:   "Hi",
		Content: "Body",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, uint(7), created.AuthorID)
	assert.Equal(t, "Test Member", created.AuthorName)
	assert.Equal(t, models.RoleUser, created.AuthorRole)
	assert.Equal(t, models.PostCategoryGeneral, created.Category)
	assert.Equal(t, models.VisibilityPublic, created.Visibility)
	assert.True(t, created.IsPublished)
}

func TestCreatePostValidation(t *testing.T) {
	svc := NewPostService(noopPostRepo())
	ctx := context.Background()
	author := member(1)

	cases := []CreatePostInput{
		{Title: "", Content: "body"},
		{Title: "  ", Content: "body"},
		{Title: strings.Repeat("x", 201), Content: "body"},
		{Title: "ok", Content: ""},
		{Title: "ok", Content: "body", Category: "banana"},
		{Title: "ok", Content: "body", Visibility: "secret"},
	}
	for i, in := range cases {
		_, err := svc.CreatePost(ctx, author, in)
		require.Error(t, err, "case %d", i)
		assertCode(t, err, models.CodeValidation)
	}
}

func TestPostContentLengthBoundary(t *testing.T) {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: 1, Title: "Hi", Content: "Body"}, nil
	}
	svc := NewPostService(repo)
	ctx := context.Background()
	author := member(1)

	atLimit := strings.Repeat("x", 5000)
	overLimit := atLimit + "x"

	_, err := svc.CreatePost(ctx, author, CreatePostInput{Title: "ok", Content: atLimit})
	assert.NoError(t, err)

	_, err = svc.CreatePost(ctx, author, CreatePostInput{Title: "ok", Content: overLimit})
	assertCode(t, err, models.CodeValidation)

	_, err = svc.UpdatePost(ctx, author, 5, UpdatePostInput{Content: &atLimit})
	assert.NoError(t, err)

	_, err = svc.UpdatePost(ctx, author, 5, UpdatePostInput{Content: &overLimit})
	assertCode(t, err, models.CodeValidation)
}

func TestGetPostPrivateVisibility(t *testing.T) {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: 1, Visibility: models.VisibilityPrivate}, nil
	}
	svc := NewPostService(repo)
	ctx := context.Background()

	// Non-author member is rejected
	_, err := svc.GetPost(ctx, 5, member(2))
	assertCode(t, err, models.CodeForbidden)

	// Anonymous is rejected
	_, err = svc.GetPost(ctx, 5, nil)
	assertCode(t, err, models.CodeForbidden)

	// Author and admin can read
	_, err = svc.GetPost(ctx, 5, member(1))
	assert.NoError(t, err)
	_, err = svc.GetPost(ctx, 5, admin(9))
	assert.NoError(t, err)
}

func TestGetPostCommunityRequiresAuth(t *testing.T) {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: 1, Visibility: models.VisibilityCommunity}, nil
	}
	svc := NewPostService(repo)

	_, err := svc.GetPost(context.Background(), 5, nil)
	assertCode(t, err, models.CodeUnauthorized)

	_, err = svc.GetPost(context.Background(), 5, member(2))
	assert.NoError(t, err)
}

func TestUpdatePostOwnership(t *testing.T) {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: 1, Title: "Hi", Content: "Body", Category: models.PostCategoryGeneral, Visibility: models.VisibilityPublic}, nil
	}
	svc := NewPostService(repo)
	ctx := context.Background()

	newTitle := "Hi2"

	// Non-owner is rejected regardless of payload
	_, err := svc.UpdatePost(ctx, member(2), 5, UpdatePostInput{Title: &newTitle})
	assertCode(t, err, models.CodeForbidden)

	// Owner partial update keeps unspecified fields
	post, err := svc.UpdatePost(ctx, member(1), 5, UpdatePostInput{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Hi2", post.Title)
	assert.Equal(t, "Body", post.Content)

	// Admin may update someone else's post
	_, err = svc.UpdatePost(ctx, admin(9), 5, UpdatePostInput{Title: &newTitle})
	assert.NoError(t, err)
}

func TestDeletePostOwnership(t *testing.T) {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: 1}, nil
	}
	deleted := false
	repo.deleteFn = func(_ context.Context, _ uint) error {
		deleted = true
		return nil
	}
	svc := NewPostService(repo)
	ctx := context.Background()

	err := svc.DeletePost(ctx, member(2), 5)
	assertCode(t, err, models.CodeForbidden)
	assert.False(t, deleted)

	require.NoError(t, svc.DeletePost(ctx, member(1), 5))
	assert.True(t, deleted)
}

func TestToggleLike(t *testing.T) {
	repo := noopPostRepo()
	liked := false
	repo.isLikedFn = func(_ context.Context, _, _ uint) (bool, error) { return liked, nil }
	repo.likeFn = func(_ context.Context, _, _ uint) error {
		liked = true
		return nil
	}
	repo.unlikeFn = func(_ context.Context, _, _ uint) error {
		liked = false
		return nil
	}
	svc := NewPostService(repo)
	ctx := context.Background()
	actor := member(3)

	_, err := svc.ToggleLike(ctx, actor, 5)
	require.NoError(t, err)
	assert.True(t, liked)

	// The second toggle returns to the unliked state
	_, err = svc.ToggleLike(ctx, actor, 5)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestDeleteCommentAuthorization(t *testing.T) {
	repo := noopPostRepo()
	repo.getCommentFn = func(_ context.Context, id uint) (*models.Comment, error) {
		return &models.Comment{ID: id, PostID: 5, AuthorID: 1}, nil
	}
	svc := NewPostService(repo)
	ctx := context.Background()

	err := svc.DeleteComment(ctx, member(2), 5, 10)
	assertCode(t, err, models.CodeForbidden)

	// Wrong post id is treated as not found
	err = svc.DeleteComment(ctx, member(1), 6, 10)
	assertCode(t, err, models.CodeNotFound)

	assert.NoError(t, svc.DeleteComment(ctx, member(1), 5, 10))
	assert.NoError(t, svc.DeleteComment(ctx, admin(9), 5, 10))
}

func TestAddCommentValidation(t *testing.T) {
	svc := NewPostService(noopPostRepo())
	ctx := context.Background()

	_, err := svc.AddComment(ctx, member(1), 5, "   ")
	assertCode(t, err, models.CodeValidation)

	_, err = svc.AddComment(ctx, member(1), 5, strings.Repeat("x", 1001))
	assertCode(t, err, models.CodeValidation)

	comment, err := svc.AddComment(ctx, member(1), 5, "nice")
	require.NoError(t, err)
	assert.Equal(t, uint(1), comment.AuthorID)
	assert.Equal(t, "Test Member", comment.AuthorName)
}
