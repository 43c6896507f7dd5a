package server

import (
	"github.com/gofiber/fiber/v2"
)

// ToggleUpvote handles POST /api/upvotes/:recommendationId/toggle
func (s *Server) ToggleUpvote(c *fiber.Ctx) error {
	recID, err := s.parseID(c, "recommendationId")
	if err != nil {
		return nil
	}

	result, err := s.upvoteService.Toggle(c.Context(), s.currentUserID(c), recID)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
