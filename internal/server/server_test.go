package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"waymark/internal/config"
	"waymark/internal/database"
	"waymark/internal/models"
	"waymark/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestServer builds a Server backed by an in-memory SQLite DB and
// an in-memory session store, with all routes registered.
func setupTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// an in-memory SQLite DB exists per connection; keep the pool at one
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{Port: "0", Env: "test"}
	srv := NewServerWithDeps(cfg, db, nil, session.NewMemoryStore())

	app := fiber.New()
	srv.SetupRoutes(app)

	return srv, app, db
}

// createUser inserts a user with a bcrypt-hashed password.
func createUser(t *testing.T, db *gorm.DB, username, nickname, password string, isAdmin bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Nickname:     nickname,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// sessionFor creates a server-side session for the user and returns the
// cookie value to attach to requests.
func sessionFor(t *testing.T, srv *Server, user *models.User) string {
	t.Helper()

	token, err := srv.sessions.Create(context.Background(), session.Session{
		UserID:   user.ID,
		Username: user.Username,
		Nickname: user.Nickname,
		IsAdmin:  user.IsAdmin,
	})
	require.NoError(t, err)
	return token
}

// jsonRequest builds a request with an optional JSON body and session cookie.
func jsonRequest(t *testing.T, method, target string, body interface{}, token string) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}
	return req
}

// decodeBody decodes a JSON response body into a generic map.
func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// decodeList decodes a JSON array response body.
func decodeList(t *testing.T, resp *http.Response) []interface{} {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	var body []interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}
