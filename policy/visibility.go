package policy

import (
	"time"

	"github.com/avelorn/blogward/models"
)

// PostPublic reports whether the post is publicly visible at the given time:
// published, publication date reached, and its category (when set) published.
// The post's Category association must be loaded by the caller.
func PostPublic(p *models.Post, now time.Time) bool {
	if !p.IsPublished {
		return false
	}
	if p.PubDate.After(now) {
		return false
	}
	if p.CategoryID != nil && (p.Category == nil || !p.Category.IsPublished) {
		return false
	}
	return true
}

// PostVisible reports whether the viewer may read the post. Authors always see
// their own posts regardless of publish state.
func PostVisible(p *models.Post, viewer Viewer, now time.Time) bool {
	if viewer.Is(p.AuthorID) {
		return true
	}
	return PostPublic(p, now)
}

// CategoryVisible reports whether the category may serve as a listing root.
// The created_at check can never fail for rows created through the
// application, since creation timestamps are assigned at insert time; it is
// kept because hand-edited or imported rows could carry one.
func CategoryVisible(c *models.Category, now time.Time) bool {
	return c.IsPublished && !c.CreatedAt.After(now)
}

// Comments carry no visibility gate of their own: every comment on a readable
// post is readable, regardless of the comment's publish flag.
