package server

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"waymark/internal/models"
	"waymark/internal/service"
	"waymark/internal/session"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
// The error message is derived from the parameter name (e.g. "id" -> "Invalid ID",
// "recommendationId" -> "Invalid recommendation ID").
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "recommendationId" -> "recommendation ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	// Split on camelCase boundary before the trailing "Id" suffix.
	if strings.HasSuffix(param, "Id") {
		prefix := param[:len(param)-2]
		words := splitCamel(prefix)
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// currentSession returns the session resolved by AuthRequired, or nil
// when the request is unauthenticated.
func (s *Server) currentSession(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals("session").(*session.Session)
	return sess
}

// currentUserID returns the authenticated user's ID. Only valid on
// routes behind AuthRequired.
func (s *Server) currentUserID(c *fiber.Ctx) uint {
	uid, _ := c.Locals("userID").(uint)
	return uid
}

// respondServiceError maps a service-layer error onto the proper HTTP
// status and writes the JSON error body.
func (s *Server) respondServiceError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusFor(err), err)
}

// parseFeedQuery extracts the feed listing parameters from the query
// string. Page and limit clamping happens in the feed service.
func parseFeedQuery(c *fiber.Ctx) service.FeedInput {
	return service.FeedInput{
		Search: strings.TrimSpace(c.Query("search")),
		Tag:    strings.TrimSpace(c.Query("tag")),
		Sort:   c.Query("sort"),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 0),
	}
}

// setSessionCookie writes the session cookie. The cookie is readable by
// JavaScript so the browser extension can detect an active session.
func (s *Server) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(session.TTL.Seconds()),
		Secure:   s.config.Env == "production",
		HTTPOnly: false,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie.
func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		Secure:   s.config.Env == "production",
		HTTPOnly: false,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// userPayload is the public shape of a user returned by auth endpoints.
func userPayload(sess *session.Session) fiber.Map {
	return fiber.Map{
		"id":       sess.UserID,
		"username": sess.Username,
		"nickname": sess.Nickname,
		"isAdmin":  sess.IsAdmin,
	}
}
