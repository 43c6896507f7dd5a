package server

import (
	"waymark/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/comments/:recommendationId
func (s *Server) GetComments(c *fiber.Ctx) error {
	recID, err := s.parseID(c, "recommendationId")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.List(c.Context(), recID)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(comments)
}

// CreateComment handles POST /api/comments/:recommendationId
func (s *Server) CreateComment(c *fiber.Ctx) error {
	recID, err := s.parseID(c, "recommendationId")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.Create(c.Context(), s.currentUserID(c), recID, req.Content)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.Delete(c.Context(), s.currentUserID(c), id); err != nil {
		return s.respondServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Comment deleted",
	})
}
