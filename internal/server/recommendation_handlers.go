package server

import (
	"strings"

	"waymark/internal/models"
	"waymark/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/recommendations
func (s *Server) GetFeed(c *fiber.Ctx) error {
	page, err := s.feedService.List(c.Context(), s.currentUserID(c), parseFeedQuery(c))
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(page)
}

// FetchTitle handles GET /api/recommendations/fetch-title. It resolves
// the page title for a URL so the client can prefill the submit form.
// Fetch failures are not errors; the title is simply empty.
func (s *Server) FetchTitle(c *fiber.Ctx) error {
	url := strings.TrimSpace(c.Query("url"))
	if url == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("URL is required"))
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	title := s.feedService.FetchTitle(c.Context(), url)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"title": title,
	})
}

// CreateRecommendation handles POST /api/recommendations
func (s *Server) CreateRecommendation(c *fiber.Ctx) error {
	var req struct {
		URL     string   `json:"url"`
		Title   string   `json:"title"`
		Comment string   `json:"comment"`
		Tags    []string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	rec, err := s.feedService.Create(c.Context(), service.CreateRecommendationInput{
		UserID:  s.currentUserID(c),
		URL:     req.URL,
		Title:   req.Title,
		Comment: req.Comment,
		Tags:    req.Tags,
	})
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(rec)
}

// GetRecommendation handles GET /api/recommendations/:id
func (s *Server) GetRecommendation(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	rec, err := s.feedService.Get(c.Context(), s.currentUserID(c), id)
	if err != nil {
		return s.respondServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(rec)
}

// DeleteRecommendation handles DELETE /api/recommendations/:id
func (s *Server) DeleteRecommendation(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.feedService.Delete(c.Context(), s.currentUserID(c), id); err != nil {
		return s.respondServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Recommendation deleted",
	})
}
