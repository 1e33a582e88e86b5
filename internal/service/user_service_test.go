package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"noticeboard/internal/models"
	"noticeboard/internal/query"
	"noticeboard/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn         func(context.Context, uint) (*models.User, error)
	getByEmailFn      func(context.Context, string) (*models.User, error)
	createFn          func(context.Context, *models.User) error
	updateFn          func(context.Context, *models.User) error
	updateLastLoginFn func(context.Context, uint, time.Time) error
	setActiveFn       func(context.Context, uint, bool) error
	setRoleFn         func(context.Context, uint, models.Role) error
	listFn            func(context.Context, repository.UserFilter, query.Params) ([]models.User, int64, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return s.updateLastLoginFn(ctx, id, at)
}
func (s *userRepoStub) SetActive(ctx context.Context, id uint, active bool) error {
	return s.setActiveFn(ctx, id, active)
}
func (s *userRepoStub) SetRole(ctx context.Context, id uint, role models.Role) error {
	return s.setRoleFn(ctx, id, role)
}
func (s *userRepoStub) List(ctx context.Context, filter repository.UserFilter, params query.Params) ([]models.User, int64, error) {
	return s.listFn(ctx, filter, params)
}
func (s *userRepoStub) Stats(ctx context.Context) (*repository.UserStats, error) {
	return &repository.UserStats{}, nil
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:    func(_ context.Context, id uint) (*models.User, error) { return member(id), nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:     func(_ context.Context, _ *models.User) error { return nil },
		updateFn:     func(_ context.Context, _ *models.User) error { return nil },
		updateLastLoginFn: func(_ context.Context, _ uint, _ time.Time) error {
			return nil
		},
		setActiveFn: func(_ context.Context, _ uint, _ bool) error { return nil },
		setRoleFn:   func(_ context.Context, _ uint, _ models.Role) error { return nil },
		listFn: func(_ context.Context, _ repository.UserFilter, _ query.Params) ([]models.User, int64, error) {
			return nil, 0, nil
		},
	}
}

func TestRegisterHashesPasswordAndForcesUserRole(t *testing.T) {
	repo := noopUserRepo()
	var created *models.User
	repo.createFn = func(_ context.Context, u *models.User) error {
		u.ID = 1
		created = u
		return nil
	}
	svc := NewUserService(repo)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:     "New.Member@Example.com",
		Password:  "secret123",
		FirstName: "New",
		LastName:  "Member",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, "new.member@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "secret123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")))
}

func TestRegisterValidation(t *testing.T) {
	svc := NewUserService(noopUserRepo())
	ctx := context.Background()

	cases := []RegisterInput{
		{Email: "not-an-email", Password: "secret123", FirstName: "A", LastName: "B"},
		{Email: "a@x.com", Password: "short", FirstName: "A", LastName: "B"},
		// Over bcrypt's 72-byte input limit; must fail validation, not hashing.
		{Email: "a@x.com", Password: strings.Repeat("p", 73), FirstName: "A", LastName: "B"},
		{Email: "a@x.com", Password: "secret123", FirstName: "", LastName: "B"},
	}
	for i, in := range cases {
		_, err := svc.Register(ctx, in)
		require.Error(t, err, "case %d", i)
		assertCode(t, err, models.CodeValidation)
	}
}

func loginRepo(t *testing.T, password string, active bool) *userRepoStub {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	repo := noopUserRepo()
	repo.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
		return &models.User{ID: 1, Email: email, Password: string(hash), IsActive: active, Role: models.RoleUser}, nil
	}
	return repo
}

func TestLogin(t *testing.T) {
	svc := NewUserService(loginRepo(t, "secret123", true))
	ctx := context.Background()

	user, err := svc.Login(ctx, "a@x.com", "secret123")
	require.NoError(t, err)
	assert.NotNil(t, user.LastLogin)

	_, err = svc.Login(ctx, "a@x.com", "wrong-password")
	assertCode(t, err, models.CodeUnauthorized)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := NewUserService(noopUserRepo())

	_, err := svc.Login(context.Background(), "ghost@x.com", "whatever")
	assertCode(t, err, models.CodeUnauthorized)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	svc := NewUserService(loginRepo(t, "secret123", false))

	_, err := svc.Login(context.Background(), "a@x.com", "secret123")
	assertCode(t, err, models.CodeUnauthorized)
}

func TestChangePassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("oldpass1"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Password: string(hash)}, nil
	}
	var saved *models.User
	repo.updateFn = func(_ context.Context, u *models.User) error {
		saved = u
		return nil
	}
	svc := NewUserService(repo)
	ctx := context.Background()

	err = svc.ChangePassword(ctx, 1, "wrong", "newpass1")
	assertCode(t, err, models.CodeUnauthorized)

	err = svc.ChangePassword(ctx, 1, "oldpass1", "abc")
	assertCode(t, err, models.CodeValidation)

	require.NoError(t, svc.ChangePassword(ctx, 1, "oldpass1", "newpass1"))
	require.NotNil(t, saved)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte("newpass1")))
}

func TestUpdateProfilePartial(t *testing.T) {
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, FirstName: "Old", LastName: "Name"}, nil
	}
	svc := NewUserService(repo)

	first := "New"
	user, err := svc.UpdateProfile(context.Background(), 1, UpdateProfileInput{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "New", user.FirstName)
	assert.Equal(t, "Name", user.LastName)

	empty := "  "
	_, err = svc.UpdateProfile(context.Background(), 1, UpdateProfileInput{LastName: &empty})
	assertCode(t, err, models.CodeValidation)
}

func TestSetRoleGuards(t *testing.T) {
	svc := NewUserService(noopUserRepo())
	ctx := context.Background()
	actor := admin(1)

	_, err := svc.SetRole(ctx, actor, 2, "superuser")
	assertCode(t, err, models.CodeValidation)

	_, err = svc.SetRole(ctx, actor, 1, models.RoleUser)
	assertCode(t, err, models.CodeValidation)

	_, err = svc.SetRole(ctx, actor, 2, models.RoleModerator)
	assert.NoError(t, err)
}

func TestSetActiveGuards(t *testing.T) {
	svc := NewUserService(noopUserRepo())
	ctx := context.Background()
	actor := admin(1)

	_, err := svc.SetActive(ctx, actor, 1, false)
	assertCode(t, err, models.CodeValidation)

	_, err = svc.SetActive(ctx, actor, 2, false)
	assert.NoError(t, err)
}
