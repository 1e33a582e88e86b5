package server

import (
	"fmt"
	"net/http"
	"testing"

	"noticeboard/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) createListing(t *testing.T, token string, payload map[string]any) uint {
	t.Helper()

	base := map[string]any{
		"title": "Road bike", "description": "Barely used", "price": 150.0,
		"category": "sports", "condition": "good",
	}
	for k, v := range payload {
		base[k] = v
	}
	status, body := ts.doJSON(t, http.MethodPost, "/api/marketplace", token, base)
	require.Equal(t, fiber.StatusCreated, status, "body: %v", body)
	return uint(body["item"].(map[string]any)["id"].(float64))
}

func TestMarketplaceApprovalFlow(t *testing.T) {
	ts := newTestServer(t)
	_, seller := ts.seedUser(t, "seller@x.com", models.RoleUser)
	_, shopper := ts.seedUser(t, "shopper@x.com", models.RoleUser)
	_, mod := ts.seedUser(t, "mod@x.com", models.RoleModerator)

	status, body := ts.doJSON(t, http.MethodPost, "/api/marketplace", seller, map[string]any{
		"title": "Desk lamp", "description": "Warm light", "price": 20.0,
		"category": "home", "condition": "like-new",
	})
	require.Equal(t, fiber.StatusCreated, status)
	item := body["item"].(map[string]any)
	assert.Equal(t, false, item["isApproved"])
	assert.Equal(t, true, item["isAvailable"])
	assert.Equal(t, "USD", item["currency"])
	id := uint(item["id"].(float64))
	path := fmt.Sprintf("/api/marketplace/%d", id)

	t.Run("pending item hidden from others", func(t *testing.T) {
		status, _ := ts.doJSON(t, http.MethodGet, path, shopper, nil)
		assert.Equal(t, fiber.StatusNotFound, status)

		status, _ = ts.doJSON(t, http.MethodGet, path, seller, nil)
		assert.Equal(t, fiber.StatusOK, status)

		status, _ = ts.doJSON(t, http.MethodGet, path, mod, nil)
		assert.Equal(t, fiber.StatusOK, status)
	})

	t.Run("approval requires moderation role", func(t *testing.T) {
		status, _ := ts.doJSON(t, http.MethodPost, path+"/approve", seller, nil)
		assert.Equal(t, fiber.StatusForbidden, status)

		status, body := ts.doJSON(t, http.MethodPost, path+"/approve", mod, nil)
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "Listing approved", body["message"])
		assert.Equal(t, true, body["item"].(map[string]any)["isApproved"])
	})

	t.Run("approved item publicly visible", func(t *testing.T) {
		status, _ := ts.doJSON(t, http.MethodGet, path, shopper, nil)
		assert.Equal(t, fiber.StatusOK, status)
	})

	t.Run("approval can be revoked", func(t *testing.T) {
		status, body := ts.doJSON(t, http.MethodPost, path+"/approve", mod, map[string]any{
			"approved": false,
		})
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "Listing approval revoked", body["message"])
		assert.Equal(t, false, body["item"].(map[string]any)["isApproved"])
	})
}

func TestMarketplaceListingViews(t *testing.T) {
	ts := newTestServer(t)
	_, seller := ts.seedUser(t, "seller@x.com", models.RoleUser)
	_, mod := ts.seedUser(t, "mod@x.com", models.RoleModerator)

	ts.createListing(t, seller, map[string]any{"title": "Pending"})
	approvedID := ts.createListing(t, seller, map[string]any{"title": "Approved"})
	ts.doJSON(t, http.MethodPost, fmt.Sprintf("/api/marketplace/%d/approve", approvedID), mod, nil)

	listTitles := func(path, token string) []string {
		status, body := ts.doJSON(t, http.MethodGet, path, token, nil)
		require.Equal(t, fiber.StatusOK, status, "body: %v", body)
		items := body["items"].([]any)
		titles := make([]string, 0, len(items))
		for _, it := range items {
			titles = append(titles, it.(map[string]any)["title"].(string))
		}
		return titles
	}

	assert.Equal(t, []string{"Approved"}, listTitles("/api/marketplace", ""))
	assert.ElementsMatch(t, []string{"Pending", "Approved"}, listTitles("/api/marketplace?mine=true", seller))
	assert.ElementsMatch(t, []string{"Pending", "Approved"}, listTitles("/api/marketplace", mod))
}

func TestMarketplacePriceFilters(t *testing.T) {
	ts := newTestServer(t)
	_, seller := ts.seedUser(t, "seller@x.com", models.RoleUser)
	_, mod := ts.seedUser(t, "mod@x.com", models.RoleModerator)

	cheap := ts.createListing(t, seller, map[string]any{"title": "Cheap", "price": 5.0})
	dear := ts.createListing(t, seller, map[string]any{"title": "Dear", "price": 500.0})
	for _, id := range []uint{cheap, dear} {
		ts.doJSON(t, http.MethodPost, fmt.Sprintf("/api/marketplace/%d/approve", id), mod, nil)
	}

	status, body := ts.doJSON(t, http.MethodGet, "/api/marketplace?minPrice=100", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Dear", items[0].(map[string]any)["title"])

	status, body = ts.doJSON(t, http.MethodGet, "/api/marketplace?maxPrice=100", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	items = body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Cheap", items[0].(map[string]any)["title"])

	status, _ = ts.doJSON(t, http.MethodGet, "/api/marketplace?minPrice=lots", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestMarketplaceOwnership(t *testing.T) {
	ts := newTestServer(t)
	_, seller := ts.seedUser(t, "seller@x.com", models.RoleUser)
	_, other := ts.seedUser(t, "other@x.com", models.RoleUser)
	_, mod := ts.seedUser(t, "mod@x.com", models.RoleModerator)

	id := ts.createListing(t, seller, nil)
	path := fmt.Sprintf("/api/marketplace/%d", id)

	status, _ := ts.doJSON(t, http.MethodPut, path, other, map[string]any{"price": 1.0})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := ts.doJSON(t, http.MethodPut, path, seller, map[string]any{
		"price": 120.0, "isAvailable": false,
	})
	require.Equal(t, fiber.StatusOK, status)
	item := body["item"].(map[string]any)
	assert.Equal(t, float64(120), item["price"])
	assert.Equal(t, false, item["isAvailable"])
	assert.Equal(t, "Road bike", item["title"])

	status, _ = ts.doJSON(t, http.MethodDelete, path, other, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	// Moderators can remove listings they do not own.
	status, _ = ts.doJSON(t, http.MethodDelete, path, mod, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestMarketplaceValidation(t *testing.T) {
	ts := newTestServer(t)
	_, seller := ts.seedUser(t, "seller@x.com", models.RoleUser)

	cases := []struct {
		name    string
		payload map[string]any
	}{
		{"missing title", map[string]any{"description": "D", "price": 1.0, "category": "other", "condition": "good"}},
		{"zero price", map[string]any{"title": "T", "description": "D", "price": 0.0, "category": "other", "condition": "good"}},
		{"bad category", map[string]any{"title": "T", "description": "D", "price": 1.0, "category": "weapons", "condition": "good"}},
		{"bad condition", map[string]any{"title": "T", "description": "D", "price": 1.0, "category": "other", "condition": "wrecked"}},
		{"bad currency", map[string]any{"title": "T", "description": "D", "price": 1.0, "category": "other", "condition": "good", "currency": "DOLLARS"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := ts.doJSON(t, http.MethodPost, "/api/marketplace", seller, tc.payload)
			assert.Equal(t, fiber.StatusBadRequest, status)
		})
	}

	status, _ := ts.doJSON(t, http.MethodPost, "/api/marketplace", "", map[string]any{
		"title": "T", "description": "D", "price": 1.0, "category": "other", "condition": "good",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestMarketplaceReferenceLists(t *testing.T) {
	ts := newTestServer(t)

	status, body := ts.doJSON(t, http.MethodGet, "/api/marketplace/categories/list", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body["categories"], "electronics")

	status, body = ts.doJSON(t, http.MethodGet, "/api/marketplace/conditions/list", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body["conditions"], "like-new")
}
