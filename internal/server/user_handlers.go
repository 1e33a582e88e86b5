package server

import (
	"noticeboard/internal/models"
	"noticeboard/internal/query"
	"noticeboard/internal/repository"

	"github.com/gofiber/fiber/v2"
)

var userQueryOptions = query.Options{
	DefaultLimit: 10,
	SortFields: map[string]string{
		"createdAt": "created_at",
		"email":     "email",
		"firstName": "first_name",
		"lastName":  "last_name",
		"lastLogin": "last_login",
	},
	DefaultSort: "created_at",
}

// ListUsers handles GET /api/users
func (s *Server) ListUsers(c *fiber.Ctx) error {
	params, err := query.Parse(c, userQueryOptions)
	if err != nil {
		return respondError(c, err)
	}

	filter := repository.UserFilter{Role: models.Role(c.Query("role"))}
	if filter.Role != "" && !models.ValidRole(filter.Role) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid role"))
	}
	if raw := c.Query("isActive"); raw != "" {
		active := raw == "true"
		filter.IsActive = &active
	}

	users, pagination, err := s.userService.ListUsers(c.Context(), filter, params)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"users":      users,
		"pagination": pagination,
	})
}

// GetUserStats handles GET /api/users/stats/overview
func (s *Server) GetUserStats(c *fiber.Ctx) error {
	stats, err := s.userRepo.Stats(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// GetUser handles GET /api/users/:id
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// UpdateUser handles PUT /api/users/:id — admin changes to role and
// active state. Self-demotion and self-deactivation are rejected.
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Role     *string `json:"role"`
		IsActive *bool   `json:"isActive"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Role == nil && req.IsActive == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Nothing to update"))
	}

	actor := currentUser(c)
	var user *models.User

	if req.Role != nil {
		user, err = s.userService.SetRole(c.Context(), actor, id, models.Role(*req.Role))
		if err != nil {
			return respondError(c, err)
		}
	}
	if req.IsActive != nil {
		user, err = s.userService.SetActive(c.Context(), actor, id, *req.IsActive)
		if err != nil {
			return respondError(c, err)
		}
	}

	return c.JSON(fiber.Map{
		"message": "User updated",
		"user":    user,
	})
}

// DeactivateUser handles DELETE /api/users/:id. Accounts are never hard
// deleted; the active flag flips instead.
func (s *Server) DeactivateUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.userService.SetActive(c.Context(), currentUser(c), id, false); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deactivated"})
}

// ActivateUser handles POST /api/users/:id/activate
func (s *Server) ActivateUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.SetActive(c.Context(), currentUser(c), id, true)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "User activated",
		"user":    user,
	})
}
