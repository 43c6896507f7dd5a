package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetStats handles GET /api/stats
func (s *Server) GetStats(c *fiber.Ctx) error {
	stats, err := s.statsService.Collect(c.Context(), s.currentUserID(c))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(stats)
}
