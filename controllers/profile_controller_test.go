package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelorn/blogward/models"
)

func TestProfileFeedOwnerSeesEverything(t *testing.T) {
	h, db := setupTestApp(t)
	author := createUser(t, db, "alice")
	createPost(t, db, author, "public", true, time.Now().Add(-time.Hour), nil)
	createPost(t, db, author, "hidden", false, time.Now().Add(-time.Hour), nil)
	createPost(t, db, author, "scheduled", true, time.Now().Add(time.Hour), nil)

	w := doJSON(t, h, http.MethodGet, "/api/v1/profiles/alice/posts", nil, tokenFor(t, author))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, data := decodeResponse(t, w)
	assert.Equal(t, true, data["is_owner"])
	assert.Len(t, data["items"].([]interface{}), 3)
}

func TestProfileFeedStrangerSeesPublicSubset(t *testing.T) {
	h, db := setupTestApp(t)
	author := createUser(t, db, "alice")
	stranger := createUser(t, db, "bob")
	createPost(t, db, author, "public", true, time.Now().Add(-time.Hour), nil)
	createPost(t, db, author, "hidden", false, time.Now().Add(-time.Hour), nil)
	createPost(t, db, author, "scheduled", true, time.Now().Add(time.Hour), nil)

	for _, token := range []string{"", tokenFor(t, stranger)} {
		w := doJSON(t, h, http.MethodGet, "/api/v1/profiles/alice/posts", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		_, data := decodeResponse(t, w)
		assert.Equal(t, false, data["is_owner"])
		items := data["items"].([]interface{})
		require.Len(t, items, 1)
		assert.Equal(t, "public", items[0].(map[string]interface{})["title"])
	}
}

func TestProfileFeedUnknownUser(t *testing.T) {
	h, _ := setupTestApp(t)
	w := doJSON(t, h, http.MethodGet, "/api/v1/profiles/nobody/posts", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProfile(t *testing.T) {
	h, db := setupTestApp(t)
	user := createUser(t, db, "alice")

	w := doJSON(t, h, http.MethodPatch, "/api/v1/profile", map[string]interface{}{
		"first_name": "Alice",
		"last_name":  "Liddell",
		"email":      "alice@wonder.land",
	}, tokenFor(t, user))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, data := decodeResponse(t, w)
	assert.Equal(t, "/profiles/alice/posts", data["redirect"])

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, "Alice", reloaded.FirstName)
	assert.Equal(t, "alice@wonder.land", reloaded.Email)
}

func TestUpdateProfileUsernameTaken(t *testing.T) {
	h, db := setupTestApp(t)
	user := createUser(t, db, "alice")
	createUser(t, db, "bob")

	w := doJSON(t, h, http.MethodPatch, "/api/v1/profile", map[string]interface{}{
		"username": "bob",
	}, tokenFor(t, user))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, "alice", reloaded.Username)
}

func TestUpdateProfileRequiresAuth(t *testing.T) {
	h, _ := setupTestApp(t)
	w := doJSON(t, h, http.MethodPatch, "/api/v1/profile", map[string]interface{}{
		"first_name": "Nobody",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
