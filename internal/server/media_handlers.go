package server

import (
	"fmt"
	"io"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadMedia handles POST /api/media/upload
// @Summary Upload an image
// @Description Accepts jpeg/png/gif/webp, stores a bounded WebP copy
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image file"
// @Success 201 {object} service.UploadedMedia
// @Failure 400 {object} models.ErrorResponse
// @Router /media/upload [post]
func (s *Server) UploadMedia(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Image file is required"))
	}
	maxBytes := s.mediaService.MaxUploadBytes()
	if fh.Size > maxBytes {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", maxBytes/(1024*1024))))
	}

	f, err := fh.Open()
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	media, err := s.mediaService.Upload(c.UserContext(), service.UploadMediaInput{
		UserID:      principal(c).ID,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Content:     content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(media)
}
