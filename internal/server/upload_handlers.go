package server

import (
	"path/filepath"
	"strings"

	"noticeboard/internal/middleware"
	"noticeboard/internal/models"

	"github.com/gofiber/fiber/v2"
)

const maxUploadBytes = 5 << 20 // 5 MiB

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadImage handles POST /api/upload: multipart field "image" goes to
// the object store and the public URL comes back as {url}.
func (s *Server) UploadImage(c *fiber.Ctx) error {
	if s.storage == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewValidationError("Uploads are currently unavailable"))
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		middleware.UploadsTotal.WithLabelValues("rejected").Inc()
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("An image file is required (multipart field \"image\")"))
	}

	if fileHeader.Size > maxUploadBytes {
		middleware.UploadsTotal.WithLabelValues("rejected").Inc()
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Image too large (max 5 MB)"))
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExtensions[ext] {
		middleware.UploadsTotal.WithLabelValues("rejected").Inc()
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unsupported image type"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.UploadsTotal.WithLabelValues("error").Inc()
		return respondError(c, models.NewInternalError(err))
	}
	defer file.Close()

	url, err := s.storage.UploadImage(c.Context(), currentUser(c).ID,
		fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		middleware.UploadsTotal.WithLabelValues("error").Inc()
		return respondError(c, models.NewInternalError(err))
	}

	middleware.UploadsTotal.WithLabelValues("ok").Inc()
	return c.JSON(fiber.Map{"url": url})
}
