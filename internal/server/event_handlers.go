package server

import (
	"strings"
	"time"

	"noticeboard/internal/models"
	"noticeboard/internal/query"
	"noticeboard/internal/repository"

	"github.com/gofiber/fiber/v2"
)

var eventQueryOptions = query.Options{
	DefaultLimit: 10,
	SortFields: map[string]string{
		"startsAt":  "starts_at",
		"createdAt": "created_at",
		"title":     "title",
	},
	DefaultSort: "starts_at",
}

// ListEvents handles GET /api/events. Supports type, status and
// from (RFC 3339 lower bound on the start time) filters.
func (s *Server) ListEvents(c *fiber.Ctx) error {
	params, err := query.Parse(c, eventQueryOptions)
	if err != nil {
		return respondError(c, err)
	}

	filter := repository.EventFilter{
		Type:   models.EventType(c.Query("type")),
		Status: models.EventStatus(c.Query("status")),
	}
	if raw := c.Query("from"); raw != "" {
		from, parseErr := time.Parse(time.RFC3339, raw)
		if parseErr != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid from parameter, expected RFC 3339"))
		}
		filter.From = &from
	}
	viewer := currentUser(c)
	if viewer == nil || !viewer.IsModeratorOrAdmin() {
		published := true
		filter.Published = &published
	}

	events, total, err := s.eventRepo.List(c.Context(), filter, params)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"events":     events,
		"pagination": query.NewPagination(total, params),
	})
}

// ListEventTypes handles GET /api/events/types/list
func (s *Server) ListEventTypes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"types": models.EventTypes})
}

// ListEventStatuses handles GET /api/events/statuses/list
func (s *Server) ListEventStatuses(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"statuses": models.EventStatuses})
}

// GetEvent handles GET /api/events/:id
func (s *Server) GetEvent(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	event, err := s.eventRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	viewer := currentUser(c)
	if !event.IsPublished && (viewer == nil || !viewer.IsModeratorOrAdmin()) {
		return respondError(c, models.NewNotFoundError("Event", id))
	}
	return c.JSON(fiber.Map{"event": event})
}

type eventPayload struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Type         *string    `json:"type"`
	Status       *string    `json:"status"`
	StartsAt     *time.Time `json:"startsAt"`
	EndsAt       *time.Time `json:"endsAt"`
	Location     *string    `json:"location"`
	IsOnline     *bool      `json:"isOnline"`
	MaxAttendees *int       `json:"maxAttendees"`
	IsPublished  *bool      `json:"isPublished"`
}

// CreateEvent handles POST /api/events
func (s *Server) CreateEvent(c *fiber.Ctx) error {
	var req eventPayload
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Title == nil || strings.TrimSpace(*req.Title) == "" ||
		req.Description == nil || strings.TrimSpace(*req.Description) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title and description are required"))
	}
	if req.StartsAt == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("startsAt is required"))
	}

	eventType := models.EventTypeOther
	if req.Type != nil {
		eventType = models.EventType(*req.Type)
		if !models.ValidEventType(eventType) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid event type"))
		}
	}
	status := models.EventStatusUpcoming
	if req.Status != nil {
		status = models.EventStatus(*req.Status)
		if !models.ValidEventStatus(status) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid event status"))
		}
	}
	if req.EndsAt != nil && req.EndsAt.Before(*req.StartsAt) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("endsAt must not be before startsAt"))
	}

	organizer := currentUser(c)
	event := &models.Event{
		Title:         strings.TrimSpace(*req.Title),
		Description:   *req.Description,
		Type:          eventType,
		Status:        status,
		StartsAt:      *req.StartsAt,
		EndsAt:        req.EndsAt,
		OrganizerID:   organizer.ID,
		OrganizerName: organizer.FullName(),
		IsPublished:   req.IsPublished == nil || *req.IsPublished,
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.IsOnline != nil {
		event.IsOnline = *req.IsOnline
	}
	if req.MaxAttendees != nil {
		if *req.MaxAttendees < 0 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("maxAttendees must not be negative"))
		}
		event.MaxAttendees = *req.MaxAttendees
	}

	if err := s.eventRepo.Create(c.Context(), event); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Event created",
		"event":   event,
	})
}

// UpdateEvent handles PUT /api/events/:id
func (s *Server) UpdateEvent(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req eventPayload
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	event, err := s.eventRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" || len(title) > 200 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Title must be 1-200 characters"))
		}
		event.Title = title
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Description cannot be empty"))
		}
		event.Description = *req.Description
	}
	if req.Type != nil {
		eventType := models.EventType(*req.Type)
		if !models.ValidEventType(eventType) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid event type"))
		}
		event.Type = eventType
	}
	if req.Status != nil {
		status := models.EventStatus(*req.Status)
		if !models.ValidEventStatus(status) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid event status"))
		}
		event.Status = status
	}
	if req.StartsAt != nil {
		event.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		event.EndsAt = req.EndsAt
	}
	if event.EndsAt != nil && event.EndsAt.Before(event.StartsAt) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("endsAt must not be before startsAt"))
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.IsOnline != nil {
		event.IsOnline = *req.IsOnline
	}
	if req.MaxAttendees != nil {
		if *req.MaxAttendees < 0 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("maxAttendees must not be negative"))
		}
		event.MaxAttendees = *req.MaxAttendees
	}
	if req.IsPublished != nil {
		event.IsPublished = *req.IsPublished
	}

	if err := s.eventRepo.Update(c.Context(), event); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Event updated",
		"event":   event,
	})
}

// DeleteEvent handles DELETE /api/events/:id
func (s *Server) DeleteEvent(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.eventRepo.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Event deleted"})
}
