package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avelorn/blogward/middleware"
	"github.com/avelorn/blogward/models"
	"github.com/avelorn/blogward/policy"
	"github.com/avelorn/blogward/utils"
)

// CommentController manages comments on posts.
type CommentController struct {
	db *gorm.DB
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{db: db}
}

// CreateComment attaches a comment to an existing post. The target post only
// has to exist; it is not re-checked against the viewer's visibility. The
// route requires authentication, so the denial for anonymous requesters
// happens before any write.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	text := utils.Sanitize(req.Text)
	if strings.TrimSpace(text) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40031, "text cannot be empty")
		return
	}

	postID := ctx.Param("id")
	var post models.Post
	if err := c.db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load post")
		return
	}

	viewer := middleware.CurrentViewer(ctx)
	if !viewer.Authenticated {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	comment := models.Comment{
		PostID:   post.ID,
		AuthorID: viewer.ID,
		Text:     text,
	}
	comment.IsPublished = true

	if err := c.db.Create(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to create comment")
		return
	}

	if err := c.db.Preload("Author").First(&comment, comment.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load comment")
		return
	}

	c.invalidateCommentCaches(&post)

	// The client navigates back to the post's detail view.
	utils.Success(ctx, gin.H{
		"comment":  comment,
		"redirect": "/posts/" + postID,
	})
}

// UpdateComment lets the owning author edit a comment. Non-owners get a hard
// denial; comments have no read-only fallback.
func (c *CommentController) UpdateComment(ctx *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40032, "invalid request payload")
		return
	}

	text := utils.Sanitize(req.Text)
	if strings.TrimSpace(text) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40033, "text cannot be empty")
		return
	}

	comment, post, ok := c.resolveOwnedComment(ctx, "you can only edit your own comments")
	if !ok {
		return
	}

	comment.Text = text
	if err := c.db.Save(comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to update comment")
		return
	}

	c.invalidateCommentCaches(post)

	utils.Success(ctx, gin.H{
		"comment":  comment,
		"redirect": "/posts/" + strconv.Itoa(int(comment.PostID)),
	})
}

// DeleteComment lets the owning author delete a comment. Hard denial for
// everyone else.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	comment, post, ok := c.resolveOwnedComment(ctx, "you can only delete your own comments")
	if !ok {
		return
	}

	if err := c.db.Delete(comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to delete comment")
		return
	}

	c.invalidateCommentCaches(post)

	utils.Success(ctx, gin.H{
		"message":  "comment deleted",
		"redirect": "/posts/" + strconv.Itoa(int(comment.PostID)),
	})
}

// resolveOwnedComment loads the comment from the path and enforces ownership.
// It writes the error response itself when resolution or authorization fails.
func (c *CommentController) resolveOwnedComment(ctx *gin.Context, denyMsg string) (*models.Comment, *models.Post, bool) {
	cid := strings.TrimSpace(ctx.Param("commentId"))
	if cid == "" {
		utils.Error(ctx, http.StatusBadRequest, 40034, "missing comment id")
		return nil, nil, false
	}

	var comment models.Comment
	if err := c.db.First(&comment, "id = ?", cid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "comment not found")
			return nil, nil, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to load comment")
		return nil, nil, false
	}

	viewer := middleware.CurrentViewer(ctx)
	if !policy.CanMutateComment(&comment, viewer) {
		utils.Error(ctx, http.StatusForbidden, 40320, denyMsg)
		return nil, nil, false
	}

	var post models.Post
	if err := c.db.First(&post, comment.PostID).Error; err != nil {
		// The parent is only needed for cache invalidation.
		post = models.Post{ID: comment.PostID}
	}
	return &comment, &post, true
}

func (c *CommentController) invalidateCommentCaches(post *models.Post) {
	// Comment counts are annotated on every feed item.
	utils.InvalidateByPrefix("cache:feed:public:")
	utils.InvalidateByPrefix("cache:feed:category:")
	if post.AuthorID != 0 {
		utils.InvalidateByPrefix("cache:feed:profile:" + strconv.Itoa(int(post.AuthorID)))
	} else {
		// Author unknown, purge every profile feed rather than a wrong key.
		utils.InvalidateByPrefix("cache:feed:profile:")
	}
}
