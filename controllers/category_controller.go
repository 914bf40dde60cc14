package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avelorn/blogward/feeds"
	"github.com/avelorn/blogward/models"
	"github.com/avelorn/blogward/policy"
	"github.com/avelorn/blogward/utils"
)

// CategoryController serves category post feeds.
type CategoryController struct {
	db *gorm.DB
}

// NewCategoryController creates a new CategoryController instance.
func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{db: db}
}

// CategoryFeed resolves a category by slug and returns its feed. An
// unpublished or missing category produces the same not-found outcome for
// every viewer so hidden categories cannot be probed.
func (cc *CategoryController) CategoryFeed(ctx *gin.Context) {
	slug := strings.TrimSpace(ctx.Param("slug"))
	if slug == "" {
		utils.Error(ctx, http.StatusBadRequest, 40040, "missing category slug")
		return
	}
	page := parsePage(ctx.Query("page"))
	now := time.Now()

	cacheKey := fmt.Sprintf("cache:feed:category:%s:page=%d", slug, page)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var category models.Category
	err := cc.db.First(&category, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40405, "category not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load category")
		return
	}

	if !policy.CategoryVisible(&category, now) {
		utils.Error(ctx, http.StatusNotFound, 40405, "category not found")
		return
	}

	posts, pagination, err := feeds.Category(cc.db, category.ID, now, page)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to list category posts")
		return
	}

	payload := gin.H{
		"category":   category,
		"items":      posts,
		"pagination": pagination,
	}
	cacheEnvelope(cacheKey, payload)
	utils.Success(ctx, payload)
}
