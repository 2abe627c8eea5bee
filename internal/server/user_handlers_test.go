package server

import (
	"net/http"
	"testing"

	"linknet/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProfiles(t *testing.T) {
	app, _, db := newTestServer(t)

	alice := seedUser(t, db, "alice")
	seedUser(t, db, "bob")

	t.Run("own profile", func(t *testing.T) {
		resp, err := app.Test(authedRequest(t, http.MethodGet, "/users/me", alice.ID, nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var user models.User
		decodeBody(t, resp, &user)
		assert.Equal(t, alice.ID, user.ID)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("public profile by username", func(t *testing.T) {
		resp, err := app.Test(authedRequest(t, http.MethodGet, "/users/bob", alice.ID, nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var summary models.UserSummary
		decodeBody(t, resp, &summary)
		assert.Equal(t, "bob", summary.Username)
	})

	t.Run("unknown username is 404", func(t *testing.T) {
		resp, err := app.Test(authedRequest(t, http.MethodGet, "/users/ghost", alice.ID, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var body models.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, models.CodeNotFound, body.Code)
	})

	t.Run("requires authentication", func(t *testing.T) {
		resp, err := app.Test(authedRequest(t, http.MethodGet, "/users/me", 0, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		_ = resp.Body.Close()
	})
}
