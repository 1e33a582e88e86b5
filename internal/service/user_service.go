package service

import (
	"context"
	"strings"
	"time"

	"noticeboard/internal/models"
	"noticeboard/internal/query"
	"noticeboard/internal/repository"
	"noticeboard/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UserService implements registration, login, profile and admin user rules.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService returns a UserService backed by the given repository.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
}

// UpdateProfileInput carries partial profile fields; nil means unchanged.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Avatar    *string
}

// Register creates a new user account with the default role.
// Any client-supplied role is ignored.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Password:  string(hash),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Role:      models.RoleUser,
		IsActive:  true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns the account. Deactivated
// accounts and bad credentials both fail with the same error shape.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}
	if !user.IsActive {
		return nil, models.NewUnauthorizedError("This account has been deactivated")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err == nil {
		user.LastLogin = &now
	}
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		name := strings.TrimSpace(*in.FirstName)
		if name == "" || len(name) > 50 {
			return nil, models.NewValidationError("First name must be 1-50 characters")
		}
		user.FirstName = name
	}
	if in.LastName != nil {
		name := strings.TrimSpace(*in.LastName)
		if name == "" || len(name) > 50 {
			return nil, models.NewValidationError("Last name must be 1-50 characters")
		}
		user.LastName = name
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before setting a new one.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return models.NewUnauthorizedError("Current password is incorrect")
	}
	if err := validation.ValidatePassword(next); err != nil {
		return models.NewValidationError(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.Password = string(hash)
	return s.userRepo.Update(ctx, user)
}

func (s *UserService) ListUsers(ctx context.Context, filter repository.UserFilter, params query.Params) ([]models.User, query.Pagination, error) {
	users, total, err := s.userRepo.List(ctx, filter, params)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	return users, query.NewPagination(total, params), nil
}

// SetRole changes a user's role. Admins cannot demote themselves, so a
// deployment always keeps at least one admin reachable.
func (s *UserService) SetRole(ctx context.Context, actor *models.User, targetID uint, role models.Role) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, models.NewValidationError("Invalid role")
	}
	if actor.ID == targetID && role != models.RoleAdmin {
		return nil, models.NewValidationError("You cannot change your own role")
	}
	if err := s.userRepo.SetRole(ctx, targetID, role); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, targetID)
}

// SetActive toggles an account. Users are deactivated instead of deleted.
func (s *UserService) SetActive(ctx context.Context, actor *models.User, targetID uint, active bool) (*models.User, error) {
	if actor.ID == targetID && !active {
		return nil, models.NewValidationError("You cannot deactivate your own account")
	}
	if err := s.userRepo.SetActive(ctx, targetID, active); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, targetID)
}
