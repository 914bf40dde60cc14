// Package feeds builds the filtered, comment-annotated, paginated post
// listings. Queries are expressed against the store directly; visibility rules
// here must stay in sync with the policy package, which states them for single
// entities.
package feeds

import (
	"time"

	"gorm.io/gorm"

	"github.com/avelorn/blogward/models"
)

// PageSize is fixed for every feed.
const PageSize = 10

// Pagination describes the slice of the feed being returned.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// commentCountSelect annotates each post with its total comment count. The
// count deliberately ignores the comments' own publish flags.
const commentCountSelect = "posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count"

// publicOnly narrows a posts query to publicly visible rows: published,
// publication date reached, category absent or itself published.
func publicOnly(q *gorm.DB, now time.Time) *gorm.DB {
	return q.
		Joins("LEFT JOIN categories ON categories.id = posts.category_id").
		Where("posts.is_published = ?", true).
		Where("posts.pub_date <= ?", now).
		Where("posts.category_id IS NULL OR categories.is_published = ?", true)
}

// Public returns the site-wide feed of publicly visible posts, newest first.
func Public(db *gorm.DB, now time.Time, page int) ([]models.Post, Pagination, error) {
	q := publicOnly(db.Model(&models.Post{}), now)
	return paginate(q, page)
}

// Category returns the feed for one category. The category itself must already
// have passed resolution (policy.CategoryVisible), so only the posts' own
// publish state and publication date are checked here.
func Category(db *gorm.DB, categoryID uint, now time.Time, page int) ([]models.Post, Pagination, error) {
	q := db.Model(&models.Post{}).
		Where("posts.category_id = ?", categoryID).
		Where("posts.is_published = ?", true).
		Where("posts.pub_date <= ?", now)
	return paginate(q, page)
}

// Profile returns one author's feed. Owners see all of their posts including
// hidden and scheduled ones; everyone else sees only the publicly visible
// subset.
func Profile(db *gorm.DB, authorID uint, owner bool, now time.Time, page int) ([]models.Post, Pagination, error) {
	q := db.Model(&models.Post{}).Where("posts.author_id = ?", authorID)
	if !owner {
		q = publicOnly(q, now)
	}
	return paginate(q, page)
}

func paginate(q *gorm.DB, page int) ([]models.Post, Pagination, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var posts []models.Post
	err := q.Select(commentCountSelect).
		Order("posts.pub_date DESC, posts.id DESC").
		Offset((page - 1) * PageSize).
		Limit(PageSize).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		Find(&posts).Error
	if err != nil {
		return nil, Pagination{}, err
	}

	return posts, Pagination{
		Page:       page,
		PageSize:   PageSize,
		Total:      total,
		TotalPages: int((total + PageSize - 1) / PageSize),
	}, nil
}
