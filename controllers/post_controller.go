package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avelorn/blogward/feeds"
	"github.com/avelorn/blogward/middleware"
	"github.com/avelorn/blogward/models"
	"github.com/avelorn/blogward/policy"
	"github.com/avelorn/blogward/utils"
)

// maxTitleLength bounds post and category titles.
const maxTitleLength = 256

// PostController manages post CRUD, the public feed and post comments.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

type postRequest struct {
	Title      string     `json:"title" binding:"required,min=1"`
	Text       string     `json:"text" binding:"required"`
	PubDate    *time.Time `json:"pub_date"`
	CategoryID *uint      `json:"category_id"`
	LocationID *uint      `json:"location_id"`
	Image      string     `json:"image"`
	// Hidden posts stay visible to their author only.
	IsPublished *bool `json:"is_published"`
}

// ListPosts returns the public feed: published posts whose publication date
// has arrived and whose category, if any, is itself published.
func (p *PostController) ListPosts(ctx *gin.Context) {
	page := parsePage(ctx.Query("page"))

	cacheKey := fmt.Sprintf("cache:feed:public:page=%d", page)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	posts, pagination, err := feeds.Public(p.db, time.Now(), page)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to list posts")
		return
	}

	payload := gin.H{"items": posts, "pagination": pagination}
	cacheEnvelope(cacheKey, payload)
	utils.Success(ctx, payload)
}

// GetPost returns a single post with its full comment list and an empty
// comment form. Anonymous viewers are denied by AuthRequired on the route:
// the detail page is stricter than the public feed. A post the viewer may not
// read is indistinguishable from a missing one.
func (p *PostController) GetPost(ctx *gin.Context) {
	post, err := p.loadPostDetail(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load post")
		return
	}

	viewer := middleware.CurrentViewer(ctx)
	if !policy.PostVisible(post, viewer, time.Now()) {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return
	}

	utils.Success(ctx, postDetailPayload(post))
}

// CreatePost allows authenticated users to create new posts. The author is
// always the viewer regardless of the payload.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	viewer := middleware.CurrentViewer(ctx)
	if !viewer.Authenticated {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	post := models.Post{AuthorID: viewer.ID}
	if code, msg := p.applyPostFields(&post, &req); code != 0 {
		utils.Error(ctx, http.StatusBadRequest, code, msg)
		return
	}

	if err := p.db.Create(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to create post")
		return
	}

	p.invalidatePostCaches(&post)

	if err := p.db.Preload("Author").Preload("Category").Preload("Location").First(&post, post.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load post")
		return
	}

	// The client navigates to the author's profile feed after a create.
	utils.Success(ctx, gin.H{
		"post":     post,
		"redirect": "/profiles/" + viewer.Username + "/posts",
	})
}

// UpdatePost lets the owning author edit a post. A non-owner is not given an
// error: the request degrades to the same read-only rendering the detail view
// produces. A post the viewer could not read stays a not-found, same as the
// detail view.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40024, "invalid request payload")
		return
	}

	postID := ctx.Param("id")
	post, err := p.loadPostDetail(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40403, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to load post")
		return
	}

	viewer := middleware.CurrentViewer(ctx)
	if !policy.CanMutatePost(post, viewer) {
		// Read-only fallback instead of a denial, but only when the viewer
		// could read the post in the first place.
		if !policy.PostVisible(post, viewer, time.Now()) {
			utils.Error(ctx, http.StatusNotFound, 40403, "post not found")
			return
		}
		utils.Success(ctx, postDetailPayload(post))
		return
	}

	if code, msg := p.applyPostFields(post, &req); code != 0 {
		utils.Error(ctx, http.StatusBadRequest, code, msg)
		return
	}

	if err := p.db.Save(post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to update post")
		return
	}

	p.invalidatePostCaches(post)

	utils.Success(ctx, gin.H{
		"post":     post,
		"redirect": "/posts/" + postID,
	})
}

// DeletePost allows only the owning author to delete. Unlike update there is
// no fallback: a non-owner gets a hard denial.
func (p *PostController) DeletePost(ctx *gin.Context) {
	postID := ctx.Param("id")
	var post models.Post
	if err := p.db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40404, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50027, "failed to load post")
		return
	}

	viewer := middleware.CurrentViewer(ctx)
	if !policy.CanMutatePost(&post, viewer) {
		utils.Error(ctx, http.StatusForbidden, 40302, "you can only delete your own posts")
		return
	}

	if err := p.db.Delete(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50028, "failed to delete post")
		return
	}

	p.invalidatePostCaches(&post)

	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// applyPostFields validates and copies request fields onto the post. Returns a
// non-zero code and message on validation failure.
func (p *PostController) applyPostFields(post *models.Post, req *postRequest) (int, string) {
	title := strings.TrimSpace(utils.Sanitize(req.Title))
	if title == "" {
		return 40021, "title cannot be empty"
	}
	if len([]rune(title)) > maxTitleLength {
		return 40022, "title too long"
	}

	text := utils.Sanitize(req.Text)
	if strings.TrimSpace(text) == "" {
		return 40023, "text cannot be empty"
	}

	if req.CategoryID != nil {
		var n int64
		if err := p.db.Model(&models.Category{}).Where("id = ?", *req.CategoryID).Count(&n).Error; err != nil || n == 0 {
			return 40026, "unknown category"
		}
	}
	if req.LocationID != nil {
		var n int64
		if err := p.db.Model(&models.Location{}).Where("id = ?", *req.LocationID).Count(&n).Error; err != nil || n == 0 {
			return 40027, "unknown location"
		}
	}

	post.Title = title
	post.Text = text
	post.CategoryID = req.CategoryID
	post.LocationID = req.LocationID
	post.Image = strings.TrimSpace(req.Image)
	if req.PubDate != nil {
		post.PubDate = *req.PubDate
	} else if post.PubDate.IsZero() {
		post.PubDate = time.Now()
	}
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	} else if post.ID == 0 {
		post.IsPublished = true
	}
	return 0, ""
}

// loadPostDetail loads a post with every association the detail rendering
// needs. Comments come back oldest first with their authors, and none are
// filtered out regardless of their publish flag.
func (p *PostController) loadPostDetail(postID string) (*models.Post, error) {
	var post models.Post
	err := p.db.
		Preload("Author").
		Preload("Category").
		Preload("Location").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Preload("Comments.Author").
		First(&post, "id = ?", postID).Error
	if err != nil {
		return nil, err
	}
	post.CommentCount = int64(len(post.Comments))
	return &post, nil
}

// postDetailPayload is the single rendering used by the detail view and by the
// non-owner update fallback, so both produce identical output.
func postDetailPayload(post *models.Post) gin.H {
	return gin.H{
		"post": post,
		"form": gin.H{"text": ""},
	}
}

func (p *PostController) invalidatePostCaches(post *models.Post) {
	utils.InvalidateByPrefix("cache:feed:public:")
	utils.InvalidateByPrefix("cache:feed:category:")
	utils.InvalidateByPrefix("cache:feed:profile:" + strconv.Itoa(int(post.AuthorID)))
}

func parsePage(pageStr string) int {
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		return p
	}
	return 1
}

// cacheEnvelope stores the standard success envelope so cached bytes can be
// replayed verbatim.
func cacheEnvelope(key string, payload interface{}) {
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(key, wrapper, time.Hour)
}
