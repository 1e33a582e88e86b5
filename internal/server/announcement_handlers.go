package server

import (
	"strings"

	"noticeboard/internal/models"
	"noticeboard/internal/query"
	"noticeboard/internal/repository"

	"github.com/gofiber/fiber/v2"
)

var announcementQueryOptions = query.Options{
	DefaultLimit: 10,
	SortFields: map[string]string{
		"createdAt": "created_at",
		"updatedAt": "updated_at",
		"title":     "title",
		"priority":  "priority",
	},
	DefaultSort: "created_at",
}

// ListAnnouncements handles GET /api/announcements. Drafts are only
// visible to moderation roles.
func (s *Server) ListAnnouncements(c *fiber.Ctx) error {
	params, err := query.Parse(c, announcementQueryOptions)
	if err != nil {
		return respondError(c, err)
	}

	filter := repository.AnnouncementFilter{
		Category: models.AnnouncementCategory(c.Query("category")),
		Priority: models.Priority(c.Query("priority")),
	}
	viewer := currentUser(c)
	if viewer == nil || !viewer.IsModeratorOrAdmin() {
		published := true
		filter.Published = &published
	}

	announcements, total, err := s.announcementRepo.List(c.Context(), filter, params)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"announcements": announcements,
		"pagination":    query.NewPagination(total, params),
	})
}

// ListAnnouncementCategories handles GET /api/announcements/categories/list
func (s *Server) ListAnnouncementCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"categories": models.AnnouncementCategories})
}

// ListAnnouncementPriorities handles GET /api/announcements/priorities/list
func (s *Server) ListAnnouncementPriorities(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"priorities": models.Priorities})
}

// GetAnnouncement handles GET /api/announcements/:id
func (s *Server) GetAnnouncement(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	announcement, err := s.announcementRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	viewer := currentUser(c)
	if !announcement.IsPublished && (viewer == nil || !viewer.IsModeratorOrAdmin()) {
		return respondError(c, models.NewNotFoundError("Announcement", id))
	}
	return c.JSON(fiber.Map{"announcement": announcement})
}

// CreateAnnouncement handles POST /api/announcements
func (s *Server) CreateAnnouncement(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Content     string `json:"content"`
		Category    string `json:"category"`
		Priority    string `json:"priority"`
		IsPublished *bool  `json:"isPublished"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Content) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title and content are required"))
	}
	if len(req.Title) > 200 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title too long (max 200 characters)"))
	}

	category := models.AnnouncementCategory(req.Category)
	if req.Category == "" {
		category = models.AnnouncementCategoryGeneral
	} else if !models.ValidAnnouncementCategory(category) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid category"))
	}

	priority := models.Priority(req.Priority)
	if req.Priority == "" {
		priority = models.PriorityNormal
	} else if !models.ValidPriority(priority) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid priority"))
	}

	author := currentUser(c)
	announcement := &models.Announcement{
		Title:       req.Title,
		Content:     req.Content,
		Category:    category,
		Priority:    priority,
		AuthorID:    author.ID,
		AuthorName:  author.FullName(),
		IsPublished: req.IsPublished == nil || *req.IsPublished,
	}
	if err := s.announcementRepo.Create(c.Context(), announcement); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Announcement created",
		"announcement": announcement,
	})
}

// UpdateAnnouncement handles PUT /api/announcements/:id
func (s *Server) UpdateAnnouncement(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       *string `json:"title"`
		Content     *string `json:"content"`
		Category    *string `json:"category"`
		Priority    *string `json:"priority"`
		IsPublished *bool   `json:"isPublished"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	announcement, err := s.announcementRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" || len(title) > 200 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Title must be 1-200 characters"))
		}
		announcement.Title = title
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Content cannot be empty"))
		}
		announcement.Content = *req.Content
	}
	if req.Category != nil {
		category := models.AnnouncementCategory(*req.Category)
		if !models.ValidAnnouncementCategory(category) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid category"))
		}
		announcement.Category = category
	}
	if req.Priority != nil {
		priority := models.Priority(*req.Priority)
		if !models.ValidPriority(priority) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid priority"))
		}
		announcement.Priority = priority
	}
	if req.IsPublished != nil {
		announcement.IsPublished = *req.IsPublished
	}

	if err := s.announcementRepo.Update(c.Context(), announcement); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":      "Announcement updated",
		"announcement": announcement,
	})
}

// DeleteAnnouncement handles DELETE /api/announcements/:id
func (s *Server) DeleteAnnouncement(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.announcementRepo.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Announcement deleted"})
}
