package server

import (
	"strings"

	"noticeboard/internal/models"
	"noticeboard/internal/query"
	"noticeboard/internal/repository"
	"noticeboard/internal/validation"

	"github.com/gofiber/fiber/v2"
)

var contactQueryOptions = query.Options{
	DefaultLimit: 10,
	SortFields: map[string]string{
		"name":       "name",
		"department": "department",
		"company":    "company",
		"createdAt":  "created_at",
	},
	DefaultSort: "name",
}

func validDepartment(department string) bool {
	for _, d := range models.Departments {
		if d == department {
			return true
		}
	}
	return false
}

// canManageContact reports whether the actor may mutate the given entry.
func canManageContact(actor *models.User, contact *models.Contact) bool {
	return actor.ID == contact.CreatedByID || actor.IsModeratorOrAdmin()
}

// ListContacts handles GET /api/contacts
func (s *Server) ListContacts(c *fiber.Ctx) error {
	params, err := query.Parse(c, contactQueryOptions)
	if err != nil {
		return respondError(c, err)
	}

	filter := repository.ContactFilter{
		Department: c.Query("department"),
		Tag:        c.Query("tag"),
	}
	if raw := c.Query("isActive"); raw != "" {
		active := raw == "true"
		filter.IsActive = &active
	}

	contacts, total, err := s.contactRepo.List(c.Context(), filter, params)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"contacts":   contacts,
		"pagination": query.NewPagination(total, params),
	})
}

// ListContactDepartments handles GET /api/contacts/departments/list
func (s *Server) ListContactDepartments(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"departments": models.Departments})
}

// ListContactTags handles GET /api/contacts/tags/list
func (s *Server) ListContactTags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"tags": models.ContactTags})
}

// GetContactStats handles GET /api/contacts/stats/overview
func (s *Server) GetContactStats(c *fiber.Ctx) error {
	stats, err := s.contactRepo.Stats(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// GetContact handles GET /api/contacts/:id
func (s *Server) GetContact(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	contact, err := s.contactRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"contact": contact})
}

// CreateContact handles POST /api/contacts
func (s *Server) CreateContact(c *fiber.Ctx) error {
	var req struct {
		Name       string   `json:"name"`
		Email      string   `json:"email"`
		Phone      string   `json:"phone"`
		Company    string   `json:"company"`
		Position   string   `json:"position"`
		Department string   `json:"department"`
		Location   string   `json:"location"`
		Tags       []string `json:"tags"`
		Notes      string   `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || len(req.Name) > 100 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Name must be 1-100 characters"))
	}
	if err := validation.Var("email", req.Email, "required,email"); err != nil {
		return respondError(c, err)
	}
	if req.Department != "" && !validDepartment(req.Department) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid department"))
	}

	creator := currentUser(c)
	contact := &models.Contact{
		Name:        req.Name,
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:       req.Phone,
		Company:     req.Company,
		Position:    req.Position,
		Department:  req.Department,
		Location:    req.Location,
		Tags:        req.Tags,
		Notes:       req.Notes,
		IsActive:    true,
		CreatedBy:   creator.FullName(),
		CreatedByID: creator.ID,
	}
	if err := s.contactRepo.Create(c.Context(), contact); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Contact created",
		"contact": contact,
	})
}

// UpdateContact handles PUT /api/contacts/:id
func (s *Server) UpdateContact(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name       *string   `json:"name"`
		Email      *string   `json:"email"`
		Phone      *string   `json:"phone"`
		Company    *string   `json:"company"`
		Position   *string   `json:"position"`
		Department *string   `json:"department"`
		Location   *string   `json:"location"`
		Tags       *[]string `json:"tags"`
		Notes      *string   `json:"notes"`
		IsActive   *bool     `json:"isActive"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	contact, err := s.contactRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if !canManageContact(currentUser(c), contact) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only update contacts you created"))
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len(name) > 100 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Name must be 1-100 characters"))
		}
		contact.Name = name
	}
	if req.Email != nil {
		if err := validation.Var("email", *req.Email, "required,email"); err != nil {
			return respondError(c, err)
		}
		contact.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		contact.Phone = *req.Phone
	}
	if req.Company != nil {
		contact.Company = *req.Company
	}
	if req.Position != nil {
		contact.Position = *req.Position
	}
	if req.Department != nil {
		if *req.Department != "" && !validDepartment(*req.Department) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid department"))
		}
		contact.Department = *req.Department
	}
	if req.Location != nil {
		contact.Location = *req.Location
	}
	if req.Tags != nil {
		contact.Tags = *req.Tags
	}
	if req.Notes != nil {
		contact.Notes = *req.Notes
	}
	if req.IsActive != nil {
		contact.IsActive = *req.IsActive
	}

	if err := s.contactRepo.Update(c.Context(), contact); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Contact updated",
		"contact": contact,
	})
}

// DeleteContact handles DELETE /api/contacts/:id
func (s *Server) DeleteContact(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	contact, err := s.contactRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if !canManageContact(currentUser(c), contact) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only delete contacts you created"))
	}

	if err := s.contactRepo.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Contact deleted"})
}
