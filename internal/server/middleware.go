package server

import (
	"context"
	"strings"

	"noticeboard/internal/featureflags"
	"noticeboard/internal/middleware"
	"noticeboard/internal/models"

	"github.com/gofiber/fiber/v2"
)

// bearerToken extracts the token from an "Authorization: Bearer ..." header.
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// resolveUser validates the token and loads the referenced account.
// A valid signature is not enough: the account must still exist and be active.
func (s *Server) resolveUser(c *fiber.Ctx, tokenString string) (*models.User, *models.AppError) {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		middleware.AuthFailures.WithLabelValues("invalid_token").Inc()
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}

	user, err := s.userRepo.GetByID(c.Context(), claims.UserID)
	if err != nil {
		middleware.AuthFailures.WithLabelValues("unknown_user").Inc()
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}
	if !user.IsActive {
		middleware.AuthFailures.WithLabelValues("deactivated").Inc()
		return nil, models.NewUnauthorizedError("This account has been deactivated")
	}
	return user, nil
}

// attachIdentity stores the resolved user in Fiber locals and syncs it into
// the request context so the structured logger picks it up downstream.
func attachIdentity(c *fiber.Ctx, user *models.User) {
	c.Locals("userID", user.ID)
	c.Locals("user", user)

	ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, user.ID)
	ctx = context.WithValue(ctx, middleware.UserRoleKey, string(user.Role))
	c.SetUserContext(ctx)
}

// AuthRequired returns middleware that rejects requests without a valid
// bearer token belonging to an active account.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			middleware.AuthFailures.WithLabelValues("missing_token").Inc()
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		user, appErr := s.resolveUser(c, tokenString)
		if appErr != nil {
			return models.RespondWithError(c, appErr.StatusCode(), appErr)
		}

		attachIdentity(c, user)
		return c.Next()
	}
}

// OptionalAuth attaches an identity when a valid bearer token is present
// but lets anonymous requests through untouched. A token that is present
// but invalid is treated as anonymous, not rejected.
func (s *Server) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return c.Next()
		}

		if user, appErr := s.resolveUser(c, tokenString); appErr == nil {
			attachIdentity(c, user)
		}
		return c.Next()
	}
}

// RequireRoles returns middleware rejecting identities outside the given
// role set with 403. Must run after AuthRequired.
func (s *Server) RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := currentUser(c)
		if user == nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Insufficient permissions"))
	}
}

// RequireFlag hides a route group behind a feature flag; disabled flags
// look like the routes do not exist.
func (s *Server) RequireFlag(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var userID uint
		if uid, ok := c.Locals("userID").(uint); ok {
			userID = uid
		}
		if !s.flags.Enabled(name, userID) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Resource", c.Path()))
		}
		return c.Next()
	}
}

// logActivity records successful mutations in the audit trail. It never
// fails the request; a write error is logged and dropped.
func (s *Server) logActivity(resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if !s.flags.Enabled(featureflags.FlagActivityLog, 0) {
			return err
		}
		if err != nil || c.Response().StatusCode() >= fiber.StatusBadRequest {
			return err
		}
		switch c.Method() {
		case fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete:
		default:
			return err
		}
		user := currentUser(c)
		if user == nil {
			return err
		}

		entry := &models.ActivityLog{
			UserID:     user.ID,
			UserName:   user.FullName(),
			Action:     c.Method(),
			Resource:   resource,
			ResourceID: c.Params("id"),
			IP:         c.IP(),
		}
		if recordErr := s.activityRepo.Record(c.Context(), entry); recordErr != nil {
			middleware.Logger.WarnContext(c.UserContext(), "activity log write failed",
				"resource", resource, "error", recordErr)
		}
		return err
	}
}
