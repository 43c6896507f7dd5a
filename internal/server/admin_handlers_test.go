package server

import (
	"fmt"
	"net/http"
	"testing"

	"waymark/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRoutesRequireAdmin(t *testing.T) {
	srv, app, db := setupTestServer(t)
	user := createUser(t, db, "alice", "Alice", "secret123", false)
	token := sessionFor(t, srv, user)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/admin/invites"},
		{http.MethodGet, "/api/admin/invites"},
		{http.MethodDelete, "/api/admin/invites/AB12CD34"},
		{http.MethodGet, "/api/admin/users"},
		{http.MethodDelete, "/api/admin/users/2"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			req := jsonRequest(t, p.method, p.path, nil, token)
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)

			body := decodeBody(t, resp)
			assert.Equal(t, "Admin access required", body["error"])
		})
	}
}

func TestInviteAdminEndpoints(t *testing.T) {
	srv, app, db := setupTestServer(t)
	admin := createUser(t, db, "root", "Root", "secret123", true)
	token := sessionFor(t, srv, admin)

	t.Run("create batch", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/api/admin/invites", map[string]int{"count": 3}, token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		codes := body["codes"].([]interface{})
		assert.Len(t, codes, 3)
		for _, code := range codes {
			assert.Regexp(t, `^[0-9A-F]{8}$`, code.(string))
		}
	})

	t.Run("empty body creates one", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/api/admin/invites", nil, token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Len(t, body["codes"].([]interface{}), 1)
	})

	t.Run("list shows creator", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/admin/invites", nil, token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		invites := decodeList(t, resp)
		require.Len(t, invites, 4)
		first := invites[0].(map[string]interface{})
		assert.Equal(t, "Root", first["created_by_nickname"])
	})

	t.Run("delete unused", func(t *testing.T) {
		var invite models.InviteCode
		require.NoError(t, db.First(&invite).Error)

		req := jsonRequest(t, http.MethodDelete, "/api/admin/invites/"+invite.Code, nil, token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("delete used rejected", func(t *testing.T) {
		var invite models.InviteCode
		require.NoError(t, db.Where("used_by IS NULL").First(&invite).Error)

		// consume it through registration
		req := jsonRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
			"inviteCode": invite.Code,
			"username":   "newbie",
			"nickname":   "Newbie",
			"password":   "secret123",
		}, "")
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		req = jsonRequest(t, http.MethodDelete, "/api/admin/invites/"+invite.Code, nil, token)
		resp, err = app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "Cannot delete used invite code", body["error"])
	})

	t.Run("delete missing", func(t *testing.T) {
		req := jsonRequest(t, http.MethodDelete, "/api/admin/invites/FFFFFFFF", nil, token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestUserAdminEndpoints(t *testing.T) {
	srv, app, db := setupTestServer(t)
	admin := createUser(t, db, "root", "Root", "secret123", true)
	member := createUser(t, db, "alice", "Alice", "secret123", false)
	token := sessionFor(t, srv, admin)
	memberToken := sessionFor(t, srv, member)

	// give the member some content so the cascade has work to do
	id := submit(t, app, memberToken, map[string]interface{}{
		"url":   "https://example.com",
		"title": "T",
		"tags":  []string{"solo"},
	})
	req := jsonRequest(t, http.MethodPost, fmt.Sprintf("/api/upvotes/%d/toggle", id), nil, memberToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	t.Run("list includes recommendation counts", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/api/admin/users", nil, token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		users := decodeList(t, resp)
		require.Len(t, users, 2)

		byName := map[string]map[string]interface{}{}
		for _, u := range users {
			user := u.(map[string]interface{})
			byName[user["username"].(string)] = user
		}
		assert.Equal(t, float64(1), byName["alice"]["recommendation_count"])
		assert.Equal(t, float64(0), byName["root"]["recommendation_count"])
		// password hashes never serialize
		_, leaked := byName["alice"]["password_hash"]
		assert.False(t, leaked)
	})

	t.Run("cannot delete self", func(t *testing.T) {
		req := jsonRequest(t, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", admin.ID), nil, token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "Cannot delete yourself", body["error"])
	})

	t.Run("delete cascades", func(t *testing.T) {
		req := jsonRequest(t, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", member.ID), nil, token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var users, recs, upvotes, tags int64
		require.NoError(t, db.Model(&models.User{}).Where("id = ?", member.ID).Count(&users).Error)
		require.NoError(t, db.Model(&models.Recommendation{}).Where("user_id = ?", member.ID).Count(&recs).Error)
		require.NoError(t, db.Model(&models.Upvote{}).Where("user_id = ?", member.ID).Count(&upvotes).Error)
		require.NoError(t, db.Model(&models.Tag{}).Where("created_by = ?", member.ID).Count(&tags).Error)
		assert.Zero(t, users)
		assert.Zero(t, recs)
		assert.Zero(t, upvotes)
		assert.Zero(t, tags)
	})

	t.Run("missing user", func(t *testing.T) {
		req := jsonRequest(t, http.MethodDelete, "/api/admin/users/999", nil, token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestStatsEndpoint(t *testing.T) {
	srv, app, db := setupTestServer(t)
	user := createUser(t, db, "alice", "Alice", "secret123", false)
	other := createUser(t, db, "bob", "Bob", "secret123", false)
	token := sessionFor(t, srv, user)
	otherToken := sessionFor(t, srv, other)

	id := submit(t, app, token, map[string]interface{}{
		"url":   "https://example.com",
		"title": "T",
		"tags":  []string{"go"},
	})
	req := jsonRequest(t, http.MethodPost, fmt.Sprintf("/api/upvotes/%d/toggle", id), nil, otherToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req = jsonRequest(t, http.MethodPost, fmt.Sprintf("/api/comments/%d", id), map[string]string{"content": "nice"}, otherToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	req = jsonRequest(t, http.MethodGet, "/api/stats", nil, token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)

	overview := body["overview"].(map[string]interface{})
	assert.Equal(t, float64(2), overview["totalUsers"])
	assert.Equal(t, float64(1), overview["totalRecommendations"])
	assert.Equal(t, float64(1), overview["totalUpvotes"])
	assert.Equal(t, float64(1), overview["totalComments"])

	personal := body["personal"].(map[string]interface{})
	assert.Equal(t, float64(1), personal["recommendations"])
	assert.Equal(t, float64(1), personal["upvotesReceived"])

	contributors := body["topContributors"].([]interface{})
	require.NotEmpty(t, contributors)
	first := contributors[0].(map[string]interface{})
	assert.Equal(t, "Alice", first["nickname"])
}
