package controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelorn/blogward/models"
)

func TestCreateThenFetchRoundTrip(t *testing.T) {
	h, db := setupTestApp(t)
	author := createUser(t, db, "alice")
	token := tokenFor(t, author)

	pubDate := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)
	w := doJSON(t, h, http.MethodPost, "/api/v1/posts", map[string]interface{}{
		"title":    "First post",
		"text":     "Hello world",
		"pub_date": pubDate.Format(time.RFC3339),
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, data := decodeResponse(t, w)
	created := data["post"].(map[string]interface{})
	id := uint(created["id"].(float64))
	assert.NotZero(t, id)
	assert.Equal(t, "/profiles/alice/posts", data["redirect"])

	w = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", id), nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	_, data = decodeResponse(t, w)
	fetched := data["post"].(map[string]interface{})
	assert.Equal(t, "First post", fetched["title"])
	assert.Equal(t, "Hello world", fetched["text"])
	assert.Equal(t, float64(author.ID), fetched["author_id"])
	assert.NotEmpty(t, fetched["created_at"], "server assigns created_at")
	assert.True(t, fetched["is_published"].(bool))
}

func TestPostDetailRequiresAuthentication(t *testing.T) {
	h, db := setupTestApp(t)
	author := createUser(t, db, "alice")
	post := createPost(t, db, author, "public", true, time.Now().Add(-time.Hour), nil)

	// Fully public post, still no anonymous detail access.
	w := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", post.ID), nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHiddenPostIndistinguishableFromMissing(t *testing.T) {
	h, db := setupTestApp(t)
	author := createUser(t, db, "alice")
	stranger := createUser(t, db, "bob")
	token := tokenFor(t, stranger)

	hidden := createPost(t, db, author, "hidden", false, time.Now().Add(-time.Hour), nil)

	wHidden := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", hidden.ID), nil, token)
	wMissing := doJSON(t, h, http.MethodGet, "/api/v1/posts/999999", nil, token)

	assert.Equal(t, http.StatusNotFound, wHidden.Code)
	assert.Equal(t, http.StatusNotFound, wMissing.Code)
	assert.Equal(t, wMissing.Body.String(), wHidden.Body.String(), "hidden and missing must be indistinguishable")
}

func TestAuthorSeesOwnHiddenPost(t *testing.T) {
	h, db := setupTestApp(t)
	author := createUser(t, db, "alice")
	token := tokenFor(t, author)

	hidden := createPost(t, db, author, "hidden", false, time.Now().Add(-time.Hour), nil)
	scheduled := createPost(t, db, author, "scheduled", true, time.Now().Add(time.Hour), nil)

	for _, p := range []*models.Post{hidden, scheduled} {
		w := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", p.ID), nil, token)
		assert.Equal(t, http.StatusOK, w.Code, "author sees %s", p.Title)
	}
}

func TestHiddenCategoryHidesPostFromStrangersNotAuthor(t *testing.T) {
	h, db := setupTestApp(t)
	author := createUser(t, db, "alice")
	stranger := createUser(t, db, "bob")
	hiddenCat := createCategory(t, db, "secret", false)
	post := createPost(t, db, author, "tucked-away", true, time.Now().Add(-time.Hour), hiddenCat)

	w := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", post.ID), nil, tokenFor(t, stranger))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", post.ID), nil, tokenFor(t, author))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdatePostNonOwnerGetsDetailRendering(t *testing.T) {
	h, db := setupTestApp(t)
	author := createUser(t, db, "alice")
	stranger := createUser(t, db, "bob")
	post := createPost(t, db, author, "original", true, time.Now().Add(-time.Hour), nil)

	wGet := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d", post.ID), nil, tokenFor(t, stranger))
	require.Equal(t, http.StatusOK, wGet.Code)

	wPut := doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/v1/posts/%d", post.ID), map[string]interface{}{
		"title": "hijacked",
		"text":  "overwritten",
	}, tokenFor(t, stranger))

	// Not an error page: the same rendering a detail view produces.
	assert.Equal(t, http.StatusOK, wPut.Code)
	assert.Equal(t, wGet.Body.String(), wPut.Body.String())

	var reloaded models.Post
	require.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.Equal(t, "original", reloaded.Title, "nothing was written")
}

func TestUpdateHiddenPostNonOwnerIsNotFound(t *testing.T) {
	h, db := setupTestApp(t)
	author := createUser(t, db, "alice")
	stranger := createUser(t, db, "bob")
	token := tokenFor(t, stranger)

	hidden := createPost(t, db, author, "draft", false, time.Now().Add(-time.Hour), nil)
	scheduled := createPost(t, db, author, "scheduled", true, time.Now().Add(time.Hour), nil)

	wMissing := doJSON(t, h, http.MethodPut, "/api/v1/posts/999999", map[string]interface{}{
		"title": "x", "text": "y",
	}, token)
	require.Equal(t, http.StatusNotFound, wMissing.Code)

	for _, p := range []*models.Post{hidden, scheduled} {
		w := doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/v1/posts/%d", p.ID), map[string]interface{}{
			"title": "x", "text": "y",
		}, token)
		assert.Equal(t, http.StatusNotFound, w.Code, "no fallback rendering for %s", p.Title)
		assert.Equal(t, wMissing.Body.String(), w.Body.String(), "indistinguishable from missing")
	}

	var reloaded models.Post
	require.NoError(t, db.First(&reloaded, hidden.ID).Error)
	assert.Equal(t, "draft", reloaded.Title)
}

func TestUpdatePostOwner(t *testing.T) {
	h, db := setupTestApp(t)
	author := createUser(t, db, "alice")
	post := createPost(t, db, author, "before", true, time.Now().Add(-time.Hour), nil)

	w := doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/v1/posts/%d", post.ID), map[string]interface{}{
		"title": "after",
		"text":  "updated text",
	}, tokenFor(t, author))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, data := decodeResponse(t, w)
	assert.Equal(t, fmt.Sprintf("/posts/%d", post.ID), data["redirect"])

	var reloaded models.Post
	require.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.Equal(t, "after", reloaded.Title)
}

func TestDeletePostNonOwnerIsHardDenied(t *testing.T) {
	h, db := setupTestApp(t)
	author := createUser(t, db, "alice")
	stranger := createUser(t, db, "bob")
	post := createPost(t, db, author, "keep me", true, time.Now().Add(-time.Hour), nil)

	w := doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/v1/posts/%d", post.ID), nil, tokenFor(t, stranger))
	assert.Equal(t, http.StatusForbidden, w.Code, "delete has no read-only fallback")

	var n int64
	db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&n)
	assert.Equal(t, int64(1), n)
}

func TestDeletePostOwner(t *testing.T) {
	h, db := setupTestApp(t)
	author := createUser(t, db, "alice")
	post := createPost(t, db, author, "doomed", true, time.Now().Add(-time.Hour), nil)

	w := doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/v1/posts/%d", post.ID), nil, tokenFor(t, author))
	assert.Equal(t, http.StatusOK, w.Code)

	var n int64
	db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&n)
	assert.Zero(t, n)
}

func TestCreatePostValidation(t *testing.T) {
	h, db := setupTestApp(t)
	author := createUser(t, db, "alice")
	token := tokenFor(t, author)

	w := doJSON(t, h, http.MethodPost, "/api/v1/posts", map[string]interface{}{
		"title": "   ",
		"text":  "body",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code, "blank title is a validation failure")

	w = doJSON(t, h, http.MethodPost, "/api/v1/posts", map[string]interface{}{
		"title":       "ok",
		"text":        "body",
		"category_id": 424242,
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code, "unknown category is a validation failure")
}

func TestPublicFeedEndpoint(t *testing.T) {
	h, db := setupTestApp(t)
	author := createUser(t, db, "alice")
	createPost(t, db, author, "visible", true, time.Now().Add(-time.Hour), nil)
	createPost(t, db, author, "scheduled", true, time.Now().Add(time.Hour), nil)
	createPost(t, db, author, "unpublished", false, time.Now().Add(-time.Hour), nil)

	w := doJSON(t, h, http.MethodGet, "/api/v1/posts", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	_, data := decodeResponse(t, w)
	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "visible", first["title"])

	pagination := data["pagination"].(map[string]interface{})
	assert.Equal(t, float64(10), pagination["page_size"])
}
