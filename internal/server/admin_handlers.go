package server

import (
	"strings"

	"waymark/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateInvites handles POST /api/admin/invites. The count is clamped
// by the service; a missing count produces one code.
func (s *Server) CreateInvites(c *fiber.Ctx) error {
	var req struct {
		Count int `json:"count"`
	}
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	codes, err := s.adminService.CreateInvites(c.Context(), s.currentUserID(c), req.Count)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"codes": codes,
	})
}

// ListInvites handles GET /api/admin/invites
func (s *Server) ListInvites(c *fiber.Ctx) error {
	invites, err := s.adminService.ListInvites(c.Context())
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(invites)
}

// DeleteInvite handles DELETE /api/admin/invites/:code
func (s *Server) DeleteInvite(c *fiber.Ctx) error {
	code := strings.TrimSpace(c.Params("code"))
	if code == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid invite code"))
	}

	if err := s.adminService.DeleteInvite(c.Context(), code); err != nil {
		return s.respondServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Invite code deleted",
	})
}

// ListUsers handles GET /api/admin/users
func (s *Server) ListUsers(c *fiber.Ctx) error {
	users, err := s.adminService.ListUsers(c.Context())
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(users)
}

// DeleteUser handles DELETE /api/admin/users/:id
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.adminService.DeleteUser(c.Context(), s.currentUserID(c), id); err != nil {
		return s.respondServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "User deleted",
	})
}
