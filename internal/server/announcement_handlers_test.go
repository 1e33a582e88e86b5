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

func (ts *testServer) createAnnouncement(t *testing.T, token string, payload map[string]any) uint {
	t.Helper()

	status, body := ts.doJSON(t, http.MethodPost, "/api/announcements", token, payload)
	require.Equal(t, fiber.StatusCreated, status, "body: %v", body)
	return uint(body["announcement"].(map[string]any)["id"].(float64))
}

func TestAnnouncementRoleEnforcement(t *testing.T) {
	ts := newTestServer(t)
	_, member := ts.seedUser(t, "member@x.com", models.RoleUser)
	_, mod := ts.seedUser(t, "mod@x.com", models.RoleModerator)

	payload := map[string]any{"title": "Maintenance window", "content": "Saturday 02:00"}

	status, _ := ts.doJSON(t, http.MethodPost, "/api/announcements", "", payload)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = ts.doJSON(t, http.MethodPost, "/api/announcements", member, payload)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := ts.doJSON(t, http.MethodPost, "/api/announcements", mod, payload)
	require.Equal(t, fiber.StatusCreated, status)
	announcement := body["announcement"].(map[string]any)
	assert.Equal(t, "general", announcement["category"])
	assert.Equal(t, "normal", announcement["priority"])
	assert.Equal(t, true, announcement["isPublished"])

	id := uint(announcement["id"].(float64))
	status, _ = ts.doJSON(t, http.MethodPut, fmt.Sprintf("/api/announcements/%d", id), member, map[string]any{
		"title": "Defaced",
	})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = ts.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/announcements/%d", id), member, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = ts.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/announcements/%d", id), mod, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestAnnouncementValidation(t *testing.T) {
	ts := newTestServer(t)
	_, mod := ts.seedUser(t, "mod@x.com", models.RoleModerator)

	cases := []struct {
		name    string
		payload map[string]any
	}{
		{"missing title", map[string]any{"content": "Body"}},
		{"blank content", map[string]any{"title": "T", "content": "  "}},
		{"bad category", map[string]any{"title": "T", "content": "B", "category": "nonsense"}},
		{"bad priority", map[string]any{"title": "T", "content": "B", "priority": "asap"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := ts.doJSON(t, http.MethodPost, "/api/announcements", mod, tc.payload)
			assert.Equal(t, fiber.StatusBadRequest, status)
		})
	}
}

func TestAnnouncementDraftVisibility(t *testing.T) {
	ts := newTestServer(t)
	_, member := ts.seedUser(t, "member@x.com", models.RoleUser)
	_, mod := ts.seedUser(t, "mod@x.com", models.RoleModerator)

	liveID := ts.createAnnouncement(t, mod, map[string]any{"title": "Live", "content": "Body"})
	draftID := ts.createAnnouncement(t, mod, map[string]any{
		"title": "Draft", "content": "Body", "isPublished": false,
	})

	t.Run("listing hides drafts from members", func(t *testing.T) {
		status, body := ts.doJSON(t, http.MethodGet, "/api/announcements", member, nil)
		require.Equal(t, fiber.StatusOK, status)
		assert.Len(t, body["announcements"].([]any), 1)

		status, body = ts.doJSON(t, http.MethodGet, "/api/announcements", mod, nil)
		require.Equal(t, fiber.StatusOK, status)
		assert.Len(t, body["announcements"].([]any), 2)
	})

	t.Run("draft fetch is 404 for outsiders", func(t *testing.T) {
		status, _ := ts.doJSON(t, http.MethodGet, fmt.Sprintf("/api/announcements/%d", draftID), "", nil)
		assert.Equal(t, fiber.StatusNotFound, status)

		status, _ = ts.doJSON(t, http.MethodGet, fmt.Sprintf("/api/announcements/%d", draftID), member, nil)
		assert.Equal(t, fiber.StatusNotFound, status)

		status, _ = ts.doJSON(t, http.MethodGet, fmt.Sprintf("/api/announcements/%d", draftID), mod, nil)
		assert.Equal(t, fiber.StatusOK, status)
	})

	t.Run("published fetch is public", func(t *testing.T) {
		status, body := ts.doJSON(t, http.MethodGet, fmt.Sprintf("/api/announcements/%d", liveID), "", nil)
		require.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, "Live", body["announcement"].(map[string]any)["title"])
	})
}

func TestAnnouncementPartialUpdate(t *testing.T) {
	ts := newTestServer(t)
	_, mod := ts.seedUser(t, "mod@x.com", models.RoleModerator)

	id := ts.createAnnouncement(t, mod, map[string]any{
		"title": "Original", "content": "Body", "priority": "high",
	})

	status, body := ts.doJSON(t, http.MethodPut, fmt.Sprintf("/api/announcements/%d", id), mod, map[string]any{
		"content": "Edited",
	})
	require.Equal(t, fiber.StatusOK, status)
	announcement := body["announcement"].(map[string]any)
	assert.Equal(t, "Original", announcement["title"])
	assert.Equal(t, "Edited", announcement["content"])
	assert.Equal(t, "high", announcement["priority"])
}

func TestAnnouncementReferenceLists(t *testing.T) {
	ts := newTestServer(t)

	status, body := ts.doJSON(t, http.MethodGet, "/api/announcements/categories/list", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body["categories"], "general")

	status, body = ts.doJSON(t, http.MethodGet, "/api/announcements/priorities/list", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body["priorities"], "urgent")
}
