package server

import (
	"strconv"
	"strings"

	"noticeboard/internal/models"
	"noticeboard/internal/query"
	"noticeboard/internal/repository"

	"github.com/gofiber/fiber/v2"
)

var marketplaceQueryOptions = query.Options{
	DefaultLimit: 12,
	SortFields: map[string]string{
		"createdAt": "created_at",
		"price":     "price",
		"title":     "title",
	},
	DefaultSort: "created_at",
}

// canManageItem reports whether the actor may mutate the given listing.
func canManageItem(actor *models.User, item *models.MarketplaceItem) bool {
	return actor.ID == item.SellerID || actor.IsModeratorOrAdmin()
}

// parsePriceBound reads an optional float query parameter.
func parsePriceBound(c *fiber.Ctx, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, models.NewValidationError("Invalid " + name + " parameter")
	}
	return &v, nil
}

// ListMarketplaceItems handles GET /api/marketplace. The public view shows
// approved, still-available items; moderation roles and sellers querying
// their own listings see everything.
func (s *Server) ListMarketplaceItems(c *fiber.Ctx) error {
	params, err := query.Parse(c, marketplaceQueryOptions)
	if err != nil {
		return respondError(c, err)
	}

	filter := repository.MarketplaceFilter{
		Category:  models.MarketplaceCategory(c.Query("category")),
		Condition: models.Condition(c.Query("condition")),
	}
	if filter.MinPrice, err = parsePriceBound(c, "minPrice"); err != nil {
		return respondError(c, err)
	}
	if filter.MaxPrice, err = parsePriceBound(c, "maxPrice"); err != nil {
		return respondError(c, err)
	}

	viewer := currentUser(c)
	switch {
	case viewer != nil && viewer.IsModeratorOrAdmin():
		// Full view for moderation.
	case viewer != nil && c.QueryBool("mine"):
		filter.SellerID = viewer.ID
	default:
		filter.ApprovedOnly = true
	}

	items, total, err := s.marketplaceRepo.List(c.Context(), filter, params)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"items":      items,
		"pagination": query.NewPagination(total, params),
	})
}

// ListMarketplaceCategories handles GET /api/marketplace/categories/list
func (s *Server) ListMarketplaceCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"categories": models.MarketplaceCategories})
}

// ListMarketplaceConditions handles GET /api/marketplace/conditions/list
func (s *Server) ListMarketplaceConditions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"conditions": models.Conditions})
}

// GetMarketplaceItem handles GET /api/marketplace/:id
func (s *Server) GetMarketplaceItem(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	item, err := s.marketplaceRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	viewer := currentUser(c)
	if !item.IsApproved && (viewer == nil || !canManageItem(viewer, item)) {
		return respondError(c, models.NewNotFoundError("Marketplace item", id))
	}
	return c.JSON(fiber.Map{"item": item})
}

// CreateMarketplaceItem handles POST /api/marketplace. New listings await
// moderation approval before appearing in the public view.
func (s *Server) CreateMarketplaceItem(c *fiber.Ctx) error {
	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Price       float64  `json:"price"`
		Currency    string   `json:"currency"`
		Category    string   `json:"category"`
		Condition   string   `json:"condition"`
		Images      []string `json:"images"`
		Location    string   `json:"location"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Description) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title and description are required"))
	}
	if req.Price <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Price must be positive"))
	}
	category := models.MarketplaceCategory(req.Category)
	if !models.ValidMarketplaceCategory(category) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid category"))
	}
	condition := models.Condition(req.Condition)
	if !models.ValidCondition(condition) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid condition"))
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}
	if len(currency) != 3 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Currency must be a 3-letter code"))
	}

	seller := currentUser(c)
	item := &models.MarketplaceItem{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Currency:    currency,
		Category:    category,
		Condition:   condition,
		SellerID:    seller.ID,
		SellerName:  seller.FullName(),
		Images:      req.Images,
		Location:    req.Location,
		IsAvailable: true,
	}
	if err := s.marketplaceRepo.Create(c.Context(), item); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Listing created, pending approval",
		"item":    item,
	})
}

// UpdateMarketplaceItem handles PUT /api/marketplace/:id
func (s *Server) UpdateMarketplaceItem(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       *string   `json:"title"`
		Description *string   `json:"description"`
		Price       *float64  `json:"price"`
		Category    *string   `json:"category"`
		Condition   *string   `json:"condition"`
		Images      *[]string `json:"images"`
		Location    *string   `json:"location"`
		IsAvailable *bool     `json:"isAvailable"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	item, err := s.marketplaceRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if !canManageItem(currentUser(c), item) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only update your own listings"))
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" || len(title) > 200 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Title must be 1-200 characters"))
		}
		item.Title = title
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Description cannot be empty"))
		}
		item.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Price must be positive"))
		}
		item.Price = *req.Price
	}
	if req.Category != nil {
		category := models.MarketplaceCategory(*req.Category)
		if !models.ValidMarketplaceCategory(category) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid category"))
		}
		item.Category = category
	}
	if req.Condition != nil {
		condition := models.Condition(*req.Condition)
		if !models.ValidCondition(condition) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid condition"))
		}
		item.Condition = condition
	}
	if req.Images != nil {
		item.Images = *req.Images
	}
	if req.Location != nil {
		item.Location = *req.Location
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	if err := s.marketplaceRepo.Update(c.Context(), item); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Listing updated",
		"item":    item,
	})
}

// DeleteMarketplaceItem handles DELETE /api/marketplace/:id
func (s *Server) DeleteMarketplaceItem(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	item, err := s.marketplaceRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if !canManageItem(currentUser(c), item) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only delete your own listings"))
	}

	if err := s.marketplaceRepo.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Listing deleted"})
}

// ApproveMarketplaceItem handles POST /api/marketplace/:id/approve
func (s *Server) ApproveMarketplaceItem(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	// Approval is the default; {"approved": false} revokes it.
	req := struct {
		Approved *bool `json:"approved"`
	}{}
	_ = c.BodyParser(&req)
	approved := req.Approved == nil || *req.Approved

	if err := s.marketplaceRepo.SetApproved(c.Context(), id, approved); err != nil {
		return respondError(c, err)
	}

	item, err := s.marketplaceRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	message := "Listing approval revoked"
	if approved {
		message = "Listing approved"
	}
	return c.JSON(fiber.Map{
		"message": message,
		"item":    item,
	})
}
