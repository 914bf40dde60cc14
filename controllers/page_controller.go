package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avelorn/blogward/models"
	"github.com/avelorn/blogward/utils"
)

// PageController serves static informational pages by slug.
type PageController struct {
	db *gorm.DB
}

// NewPageController creates a new PageController instance.
func NewPageController(db *gorm.DB) *PageController {
	return &PageController{db: db}
}

// GetPage returns an active static page. Inactive pages are indistinguishable
// from missing ones.
func (pc *PageController) GetPage(ctx *gin.Context) {
	slug := strings.TrimSpace(ctx.Param("slug"))
	if slug == "" {
		utils.Error(ctx, http.StatusBadRequest, 40070, "missing page slug")
		return
	}

	var page models.Page
	if err := pc.db.First(&page, "url = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40407, "page not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to load page")
		return
	}

	if !page.IsActive {
		utils.Error(ctx, http.StatusNotFound, 40407, "page not found")
		return
	}

	utils.Success(ctx, gin.H{"page": page})
}
