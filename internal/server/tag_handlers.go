package server

import (
	"waymark/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetTags handles GET /api/tags with an optional search query.
func (s *Server) GetTags(c *fiber.Ctx) error {
	tags, err := s.tagService.List(c.Context(), c.Query("search"))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(tags)
}

// CreateTag handles POST /api/tags. A new tag answers 201; creating an
// existing tag returns the existing row with 200.
func (s *Server) CreateTag(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tag, created, err := s.tagService.GetOrCreate(c.Context(), req.Name, s.currentUserID(c))
	if err != nil {
		return s.respondServiceError(c, err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(tag)
}
