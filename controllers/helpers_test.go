package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avelorn/blogward/config"
	"github.com/avelorn/blogward/models"
	"github.com/avelorn/blogward/routes"
	"github.com/avelorn/blogward/utils"
)

// setupTestApp wires the real router against an in-memory SQLite store.
func setupTestApp(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()

	config.SetForTesting(config.AppConfig{
		AppPort:            "0",
		JWTSecret:          "test-secret",
		GinMode:            "test",
		GinPath:            filepath.Join(t.TempDir(), "gin.log"),
		RateLimitPerMinute: 1000,
		AllowedOrigins:     []string{"*"},
		LogLevel:           "error",
		LogMaxSizeMB:       1,
		LogMaxBackups:      1,
		LogMaxAgeDays:      1,
		UploadDir:          t.TempDir(),
		UploadMaxSizeMB:    1,
		AdminUsernames:     []string{"admin"},
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open in-memory sqlite")
	db.Exec("PRAGMA foreign_keys = ON")
	err = db.AutoMigrate(&models.User{}, &models.Category{}, &models.Location{}, &models.Post{}, &models.Comment{}, &models.Page{})
	require.NoError(t, err, "failed to migrate schema")

	return routes.SetupRouter(db), db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	token, err := utils.GenerateToken(u.ID, u.Username, time.Hour)
	require.NoError(t, err)
	return token
}

func createPost(t *testing.T, db *gorm.DB, author *models.User, title string, published bool, pubDate time.Time, category *models.Category) *models.Post {
	t.Helper()
	p := &models.Post{Title: title, Text: "text", PubDate: pubDate, AuthorID: author.ID}
	p.IsPublished = published
	if category != nil {
		p.CategoryID = &category.ID
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func createCategory(t *testing.T, db *gorm.DB, slug string, published bool) *models.Category {
	t.Helper()
	c := &models.Category{Title: slug, Slug: slug}
	c.IsPublished = published
	require.NoError(t, db.Create(c).Error)
	return c
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// decodeResponse unpacks the standard JSON envelope.
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) (int, map[string]interface{}) {
	t.Helper()
	var resp struct {
		Code    int                    `json:"code"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return resp.Code, resp.Data
}
