// Package session implements the server-side session store backing
// cookie authentication. A session is an opaque random token mapped to
// the authenticated user's identity; the browser and the extension hold
// only the token.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TTL is how long a session stays valid without re-login.
const TTL = 7 * 24 * time.Hour

// CookieName is the name of the session cookie issued at login.
const CookieName = "waymark_session"

// Session holds the per-request identity resolved from the cookie.
type Session struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	IsAdmin  bool   `json:"is_admin"`
}

// Store persists sessions keyed by opaque token. Get returns (nil, nil)
// for an unknown or expired token.
type Store interface {
	Create(ctx context.Context, s Session) (string, error)
	Get(ctx context.Context, token string) (*Session, error)
	Destroy(ctx context.Context, token string) error
}

// newToken generates an unguessable session token.
func newToken() string {
	return uuid.NewString()
}
