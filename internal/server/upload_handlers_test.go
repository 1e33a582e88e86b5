package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"noticeboard/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// doUpload posts a multipart body with a single "image" part.
func (ts *testServer) doUpload(t *testing.T, token, fileName string, content []byte) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	decoded := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

func TestUploadImage(t *testing.T) {
	ts := newTestServer(t)
	user, token := ts.seedUser(t, "uploader@x.com", models.RoleUser)

	status, body := ts.doUpload(t, token, "avatar.png", []byte("not-really-a-png"))
	require.Equal(t, fiber.StatusOK, status, "body: %v", body)
	assert.Equal(t,
		fmt.Sprintf("http://storage.local/uploads/%d/avatar.png", user.ID),
		body["url"])
	assert.Equal(t, []string{"avatar.png"}, ts.store.uploads)
}

func TestUploadRejections(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.seedUser(t, "uploader@x.com", models.RoleUser)

	t.Run("authentication required", func(t *testing.T) {
		status, _ := ts.doUpload(t, "", "avatar.png", []byte("x"))
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run("missing file", func(t *testing.T) {
		status, _ := ts.doJSON(t, http.MethodPost, "/api/upload", token, map[string]any{})
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		status, _ := ts.doUpload(t, token, "script.sh", []byte("#!/bin/sh"))
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("oversized file", func(t *testing.T) {
		status, _ := ts.doUpload(t, token, "huge.jpg", make([]byte, maxUploadBytes+1))
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	assert.Empty(t, ts.store.uploads)
}
