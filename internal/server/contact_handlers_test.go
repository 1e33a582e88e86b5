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

func (ts *testServer) createContact(t *testing.T, token string, payload map[string]any) uint {
	t.Helper()

	base := map[string]any{"name": "Dana Smith", "email": "dana@corp.example"}
	for k, v := range payload {
		base[k] = v
	}
	status, body := ts.doJSON(t, http.MethodPost, "/api/contacts", token, base)
	require.Equal(t, fiber.StatusCreated, status, "body: %v", body)
	return uint(body["contact"].(map[string]any)["id"].(float64))
}

func TestContactsRequireAuthentication(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{
		"/api/contacts",
		"/api/contacts/1",
		"/api/contacts/departments/list",
		"/api/contacts/stats/overview",
	} {
		status, _ := ts.doJSON(t, http.MethodGet, path, "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, status, path)
	}
}

func TestContactCreate(t *testing.T) {
	ts := newTestServer(t)
	user, token := ts.seedUser(t, "member@x.com", models.RoleUser)

	status, body := ts.doJSON(t, http.MethodPost, "/api/contacts", token, map[string]any{
		"name":       "Dana Smith",
		"email":      "Dana@CORP.example",
		"department": "Engineering",
		"tags":       []string{"developer", "backend"},
	})
	require.Equal(t, fiber.StatusCreated, status)
	contact := body["contact"].(map[string]any)
	assert.Equal(t, "dana@corp.example", contact["email"])
	assert.Equal(t, true, contact["isActive"])
	assert.Equal(t, float64(user.ID), contact["createdById"])
	assert.Equal(t, "Test User", contact["createdBy"])

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			name    string
			payload map[string]any
		}{
			{"missing name", map[string]any{"email": "a@b.com"}},
			{"bad email", map[string]any{"name": "N", "email": "not-an-email"}},
			{"unknown department", map[string]any{"name": "N", "email": "a@b.com", "department": "Wizardry"}},
		}
		for _, tc := range cases {
			status, _ := ts.doJSON(t, http.MethodPost, "/api/contacts", token, tc.payload)
			assert.Equal(t, fiber.StatusBadRequest, status, tc.name)
		}
	})
}

func TestContactOwnership(t *testing.T) {
	ts := newTestServer(t)
	_, creator := ts.seedUser(t, "creator@x.com", models.RoleUser)
	_, other := ts.seedUser(t, "other@x.com", models.RoleUser)
	_, mod := ts.seedUser(t, "mod@x.com", models.RoleModerator)

	id := ts.createContact(t, creator, nil)
	path := fmt.Sprintf("/api/contacts/%d", id)

	// Any authenticated user can read.
	status, _ := ts.doJSON(t, http.MethodGet, path, other, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = ts.doJSON(t, http.MethodPut, path, other, map[string]any{"company": "Acme"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := ts.doJSON(t, http.MethodPut, path, creator, map[string]any{"company": "Acme"})
	require.Equal(t, fiber.StatusOK, status)
	contact := body["contact"].(map[string]any)
	assert.Equal(t, "Acme", contact["company"])
	assert.Equal(t, "Dana Smith", contact["name"])

	status, _ = ts.doJSON(t, http.MethodDelete, path, other, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = ts.doJSON(t, http.MethodDelete, path, mod, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestContactListFilters(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.seedUser(t, "member@x.com", models.RoleUser)

	ts.createContact(t, token, map[string]any{
		"name": "Eng One", "email": "e1@corp.example", "department": "Engineering",
		"tags": []string{"backend"},
	})
	ts.createContact(t, token, map[string]any{
		"name": "Sales One", "email": "s1@corp.example", "department": "Sales",
	})

	listNames := func(path string) []string {
		status, body := ts.doJSON(t, http.MethodGet, path, token, nil)
		require.Equal(t, fiber.StatusOK, status, "body: %v", body)
		contacts := body["contacts"].([]any)
		names := make([]string, 0, len(contacts))
		for _, c := range contacts {
			names = append(names, c.(map[string]any)["name"].(string))
		}
		return names
	}

	assert.ElementsMatch(t, []string{"Eng One", "Sales One"}, listNames("/api/contacts"))
	assert.Equal(t, []string{"Eng One"}, listNames("/api/contacts?department=Engineering"))
	assert.Equal(t, []string{"Eng One"}, listNames("/api/contacts?tag=backend"))
	assert.Empty(t, listNames("/api/contacts?isActive=false"))
}

func TestContactStatsOverview(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.seedUser(t, "member@x.com", models.RoleUser)

	ts.createContact(t, token, map[string]any{
		"name": "Eng One", "email": "e1@corp.example", "department": "Engineering",
		"tags": []string{"backend", "senior"},
	})
	ts.createContact(t, token, map[string]any{
		"name": "No Dept", "email": "nd@corp.example",
	})

	status, body := ts.doJSON(t, http.MethodGet, "/api/contacts/stats/overview", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(2), body["totalContacts"])
	assert.Equal(t, float64(2), body["activeContacts"])

	byDepartment := body["byDepartment"].(map[string]any)
	assert.Equal(t, float64(1), byDepartment["Engineering"])
	assert.Equal(t, float64(1), byDepartment["Unspecified"])

	byTag := body["byTag"].(map[string]any)
	assert.Equal(t, float64(1), byTag["backend"])

	assert.Len(t, body["recentContacts"].([]any), 2)
}

func TestContactReferenceLists(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.seedUser(t, "member@x.com", models.RoleUser)

	status, body := ts.doJSON(t, http.MethodGet, "/api/contacts/departments/list", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body["departments"], "Engineering")

	status, body = ts.doJSON(t, http.MethodGet, "/api/contacts/tags/list", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body["tags"], "developer")
}
