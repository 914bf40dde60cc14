package controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avelorn/blogward/models"
)

func adminToken(t *testing.T, db *gorm.DB) string {
	t.Helper()
	admin := createUser(t, db, "admin")
	return tokenFor(t, admin)
}

func TestAdminSurfaceRequiresAdmin(t *testing.T) {
	h, db := setupTestApp(t)
	regular := createUser(t, db, "alice")

	w := doJSON(t, h, http.MethodPost, "/api/v1/admin/categories", map[string]interface{}{
		"title": "News", "slug": "news",
	}, tokenFor(t, regular))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/v1/admin/categories", map[string]interface{}{
		"title": "News", "slug": "news",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminCategoryLifecycle(t *testing.T) {
	h, db := setupTestApp(t)
	token := adminToken(t, db)

	w := doJSON(t, h, http.MethodPost, "/api/v1/admin/categories", map[string]interface{}{
		"title": "News", "slug": "news", "description": "what happened",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, data := decodeResponse(t, w)
	cat := data["category"].(map[string]interface{})
	id := uint(cat["id"].(float64))
	assert.True(t, cat["is_published"].(bool), "published by default")

	// Duplicate slugs are rejected even against hidden categories.
	w = doJSON(t, h, http.MethodPost, "/api/v1/admin/categories", map[string]interface{}{
		"title": "More news", "slug": "news",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Hiding the category pulls its posts out of public listings.
	author := createUser(t, db, "alice")
	var stored models.Category
	require.NoError(t, db.First(&stored, id).Error)
	createPost(t, db, author, "categorized", true, time.Now().Add(-time.Hour), &stored)

	hidden := false
	w = doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/v1/admin/categories/%d", id), map[string]interface{}{
		"title": "News", "slug": "news", "is_published": &hidden,
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, h, http.MethodGet, "/api/v1/posts", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	_, data = decodeResponse(t, w)
	assert.Empty(t, data["items"], "posts in a hidden category are not public")

	w = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/v1/admin/categories/%d", id), nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var post models.Post
	require.NoError(t, db.First(&post, "title = ?", "categorized").Error)
	assert.Nil(t, post.CategoryID, "category reference nulled on delete")
}

func TestAdminCategorySlugValidation(t *testing.T) {
	h, db := setupTestApp(t)
	token := adminToken(t, db)

	w := doJSON(t, h, http.MethodPost, "/api/v1/admin/categories", map[string]interface{}{
		"title": "Bad", "slug": "Bad Slug!",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminLocationLifecycle(t *testing.T) {
	h, db := setupTestApp(t)
	token := adminToken(t, db)

	w := doJSON(t, h, http.MethodPost, "/api/v1/admin/locations", map[string]interface{}{
		"name": "Reykjavik",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, data := decodeResponse(t, w)
	loc := data["location"].(map[string]interface{})
	id := uint(loc["id"].(float64))

	w = doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/v1/admin/locations/%d", id), map[string]interface{}{
		"name": "Akureyri",
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Location
	require.NoError(t, db.First(&stored, id).Error)
	assert.Equal(t, "Akureyri", stored.Name)

	w = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/v1/admin/locations/%d", id), nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminPageLifecycle(t *testing.T) {
	h, db := setupTestApp(t)
	token := adminToken(t, db)

	w := doJSON(t, h, http.MethodPost, "/api/v1/admin/pages", map[string]interface{}{
		"title": "About us", "url": "about", "content": "We write things.",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Duplicate URL rejected.
	w = doJSON(t, h, http.MethodPost, "/api/v1/admin/pages", map[string]interface{}{
		"title": "Another about", "url": "about",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
