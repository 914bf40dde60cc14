package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/avelorn/blogward/models"
)

var (
	now       = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	yesterday = now.Add(-24 * time.Hour)
	tomorrow  = now.Add(24 * time.Hour)
)

func publishedCategory() *models.Category {
	c := &models.Category{ID: 7, Title: "News", Slug: "news"}
	c.IsPublished = true
	c.CreatedAt = yesterday
	return c
}

func hiddenCategory() *models.Category {
	c := publishedCategory()
	c.IsPublished = false
	return c
}

func post(author uint, published bool, pubDate time.Time, category *models.Category) *models.Post {
	p := &models.Post{ID: 1, Title: "t", Text: "x", PubDate: pubDate, AuthorID: author}
	p.IsPublished = published
	p.CreatedAt = yesterday
	if category != nil {
		p.Category = category
		p.CategoryID = &category.ID
	}
	return p
}

func TestPostVisiblePublicInvariant(t *testing.T) {
	anon := Anonymous
	author := Viewer{ID: 42, Username: "author", Authenticated: true}
	other := Viewer{ID: 99, Username: "other", Authenticated: true}

	tests := []struct {
		name    string
		post    *models.Post
		viewer  Viewer
		visible bool
	}{
		{"published uncategorized post is visible to anonymous", post(42, true, yesterday, nil), anon, true},
		{"published post in published category is visible to anyone", post(42, true, yesterday, publishedCategory()), other, true},
		{"hidden category hides the post from strangers", post(42, true, yesterday, hiddenCategory()), anon, false},
		{"hidden category does not hide the post from its author", post(42, true, yesterday, hiddenCategory()), author, true},
		{"unpublished post hidden from strangers", post(42, false, yesterday, nil), other, false},
		{"unpublished post visible to its author", post(42, false, yesterday, nil), author, true},
		{"scheduled post hidden until pub date", post(42, true, tomorrow, nil), anon, false},
		{"scheduled post visible to its author", post(42, true, tomorrow, nil), author, true},
		{"pub date exactly now counts as published", post(42, true, now, nil), anon, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.visible, PostVisible(tt.post, tt.viewer, now))
		})
	}
}

func TestPostPublicRequiresLoadedCategory(t *testing.T) {
	// A category reference without the loaded association must fail closed
	// rather than treat the post as uncategorized.
	p := post(42, true, yesterday, publishedCategory())
	p.Category = nil
	assert.False(t, PostPublic(p, now))
}

func TestCategoryVisible(t *testing.T) {
	c := publishedCategory()
	assert.True(t, CategoryVisible(c, now))

	hidden := hiddenCategory()
	assert.False(t, CategoryVisible(hidden, now))
}

func TestCategoryFutureCreatedAt(t *testing.T) {
	// created_at is assigned at insert time, so this situation cannot arise
	// through the application; the rule still holds for artificial rows.
	c := publishedCategory()
	c.CreatedAt = tomorrow
	assert.False(t, CategoryVisible(c, now))
}

func TestViewerIs(t *testing.T) {
	assert.False(t, Anonymous.Is(0), "anonymous viewer matches no user, not even id zero")
	assert.True(t, Viewer{ID: 5, Authenticated: true}.Is(5))
	assert.False(t, Viewer{ID: 5, Authenticated: true}.Is(6))
	assert.False(t, Viewer{ID: 5}.Is(5), "unauthenticated viewer matches no user")
}
