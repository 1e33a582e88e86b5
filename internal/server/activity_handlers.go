package server

import (
	"noticeboard/internal/query"
	"noticeboard/internal/repository"

	"github.com/gofiber/fiber/v2"
)

var activityQueryOptions = query.Options{
	DefaultLimit: 25,
	SortFields: map[string]string{
		"createdAt": "created_at",
	},
	DefaultSort: "created_at",
}

// ListActivity handles GET /api/activity — the admin audit trail.
func (s *Server) ListActivity(c *fiber.Ctx) error {
	params, err := query.Parse(c, activityQueryOptions)
	if err != nil {
		return respondError(c, err)
	}

	filter := repository.ActivityFilter{
		Resource: c.Query("resource"),
		Action:   c.Query("action"),
	}
	if raw := c.QueryInt("userId"); raw > 0 {
		filter.UserID = uint(raw)
	}

	entries, total, err := s.activityRepo.List(c.Context(), filter, params)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"activity":   entries,
		"pagination": query.NewPagination(total, params),
	})
}

// GetFeatureFlags handles GET /api/admin/feature-flags
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	user := currentUser(c)
	return c.JSON(fiber.Map{
		"raw":      s.flags.Raw(),
		"resolved": s.flags.Snapshot(user.ID),
	})
}
