package controllers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avelorn/blogward/models"
	"github.com/avelorn/blogward/utils"
)

// AdminController is the privileged surface for categories, locations and
// static pages. It runs behind AdminRequired and deliberately bypasses the
// ownership rules: administrators are not owners, they are operators.
type AdminController struct {
	db *gorm.DB
}

// NewAdminController creates a new AdminController instance.
func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{db: db}
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

type categoryRequest struct {
	Title       string `json:"title" binding:"required,min=1"`
	Description string `json:"description"`
	Slug        string `json:"slug" binding:"required"`
	IsPublished *bool  `json:"is_published"`
}

// CreateCategory adds a category. Slugs are unique across all categories,
// published or not.
func (a *AdminController) CreateCategory(ctx *gin.Context) {
	var req categoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40080, "invalid request payload")
		return
	}

	category := models.Category{}
	if code, msg := a.applyCategoryFields(&category, &req); code != 0 {
		utils.Error(ctx, http.StatusBadRequest, code, msg)
		return
	}
	if req.IsPublished == nil {
		category.IsPublished = true
	}

	if err := a.db.Create(&category).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to create category")
		return
	}

	utils.Success(ctx, gin.H{"category": category})
}

// UpdateCategory edits a category, including its publish flag. Hiding a
// category hides every post in it from public listings.
func (a *AdminController) UpdateCategory(ctx *gin.Context) {
	var req categoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40081, "invalid request payload")
		return
	}

	var category models.Category
	if err := a.db.First(&category, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40405, "category not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50081, "failed to load category")
		return
	}

	if code, msg := a.applyCategoryFields(&category, &req); code != 0 {
		utils.Error(ctx, http.StatusBadRequest, code, msg)
		return
	}

	if err := a.db.Save(&category).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50082, "failed to update category")
		return
	}

	utils.InvalidateByPrefix("cache:feed:")

	utils.Success(ctx, gin.H{"category": category})
}

// DeleteCategory removes a category. The store nulls the reference on
// dependent posts.
func (a *AdminController) DeleteCategory(ctx *gin.Context) {
	var category models.Category
	if err := a.db.First(&category, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40405, "category not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50083, "failed to load category")
		return
	}

	if err := a.db.Delete(&category).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50084, "failed to delete category")
		return
	}

	utils.InvalidateByPrefix("cache:feed:")

	utils.Success(ctx, gin.H{"message": "category deleted"})
}

func (a *AdminController) applyCategoryFields(category *models.Category, req *categoryRequest) (int, string) {
	title := strings.TrimSpace(utils.Sanitize(req.Title))
	if title == "" {
		return 40082, "title cannot be empty"
	}
	if len([]rune(title)) > maxTitleLength {
		return 40083, "title too long"
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !slugPattern.MatchString(slug) {
		return 40084, "slug may contain lowercase letters, digits, dash and underscore"
	}

	var n int64
	q := a.db.Model(&models.Category{}).Where("slug = ?", slug)
	if category.ID != 0 {
		q = q.Where("id <> ?", category.ID)
	}
	if err := q.Count(&n).Error; err != nil || n > 0 {
		return 40085, "slug already in use"
	}

	category.Title = title
	category.Description = utils.Sanitize(req.Description)
	category.Slug = slug
	if req.IsPublished != nil {
		category.IsPublished = *req.IsPublished
	}
	return 0, ""
}

type locationRequest struct {
	Name        string `json:"name" binding:"required,min=1"`
	IsPublished *bool  `json:"is_published"`
}

// CreateLocation adds a location tag.
func (a *AdminController) CreateLocation(ctx *gin.Context) {
	var req locationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40086, "invalid request payload")
		return
	}

	name := strings.TrimSpace(utils.Sanitize(req.Name))
	if name == "" || len([]rune(name)) > maxTitleLength {
		utils.Error(ctx, http.StatusBadRequest, 40087, "invalid location name")
		return
	}

	location := models.Location{Name: name}
	location.IsPublished = true
	if req.IsPublished != nil {
		location.IsPublished = *req.IsPublished
	}

	if err := a.db.Create(&location).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50085, "failed to create location")
		return
	}

	utils.Success(ctx, gin.H{"location": location})
}

// UpdateLocation edits a location.
func (a *AdminController) UpdateLocation(ctx *gin.Context) {
	var req locationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40088, "invalid request payload")
		return
	}

	var location models.Location
	if err := a.db.First(&location, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40408, "location not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50086, "failed to load location")
		return
	}

	name := strings.TrimSpace(utils.Sanitize(req.Name))
	if name == "" || len([]rune(name)) > maxTitleLength {
		utils.Error(ctx, http.StatusBadRequest, 40087, "invalid location name")
		return
	}
	location.Name = name
	if req.IsPublished != nil {
		location.IsPublished = *req.IsPublished
	}

	if err := a.db.Save(&location).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50087, "failed to update location")
		return
	}

	// Cached feed items embed the location.
	utils.InvalidateByPrefix("cache:feed:")

	utils.Success(ctx, gin.H{"location": location})
}

// DeleteLocation removes a location. The store nulls the reference on
// dependent posts.
func (a *AdminController) DeleteLocation(ctx *gin.Context) {
	var location models.Location
	if err := a.db.First(&location, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40408, "location not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50088, "failed to load location")
		return
	}

	if err := a.db.Delete(&location).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50089, "failed to delete location")
		return
	}

	utils.InvalidateByPrefix("cache:feed:")

	utils.Success(ctx, gin.H{"message": "location deleted"})
}

type pageRequest struct {
	Title    string `json:"title" binding:"required,min=1"`
	Content  string `json:"content"`
	URL      string `json:"url" binding:"required"`
	IsActive *bool  `json:"is_active"`
}

// CreatePage adds a static page.
func (a *AdminController) CreatePage(ctx *gin.Context) {
	var req pageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40089, "invalid request payload")
		return
	}

	page := models.Page{IsActive: true}
	if code, msg := a.applyPageFields(&page, &req); code != 0 {
		utils.Error(ctx, http.StatusBadRequest, code, msg)
		return
	}

	if err := a.db.Create(&page).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to create page")
		return
	}

	utils.Success(ctx, gin.H{"page": page})
}

// UpdatePage edits a static page.
func (a *AdminController) UpdatePage(ctx *gin.Context) {
	var req pageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40090, "invalid request payload")
		return
	}

	var page models.Page
	if err := a.db.First(&page, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40407, "page not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50091, "failed to load page")
		return
	}

	if code, msg := a.applyPageFields(&page, &req); code != 0 {
		utils.Error(ctx, http.StatusBadRequest, code, msg)
		return
	}

	if err := a.db.Save(&page).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50092, "failed to update page")
		return
	}

	utils.Success(ctx, gin.H{"page": page})
}

// DeletePage removes a static page.
func (a *AdminController) DeletePage(ctx *gin.Context) {
	var page models.Page
	if err := a.db.First(&page, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40407, "page not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50093, "failed to load page")
		return
	}

	if err := a.db.Delete(&page).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50094, "failed to delete page")
		return
	}

	utils.Success(ctx, gin.H{"message": "page deleted"})
}

func (a *AdminController) applyPageFields(page *models.Page, req *pageRequest) (int, string) {
	title := strings.TrimSpace(utils.Sanitize(req.Title))
	if title == "" {
		return 40091, "title cannot be empty"
	}

	slug := strings.ToLower(strings.TrimSpace(req.URL))
	if !slugPattern.MatchString(slug) {
		return 40092, "url may contain lowercase letters, digits, dash and underscore"
	}

	var n int64
	q := a.db.Model(&models.Page{}).Where("url = ?", slug)
	if page.ID != 0 {
		q = q.Where("id <> ?", page.ID)
	}
	if err := q.Count(&n).Error; err != nil || n > 0 {
		return 40093, "url already in use"
	}

	page.Title = title
	page.Content = utils.Sanitize(req.Content)
	page.URL = slug
	if req.IsActive != nil {
		page.IsActive = *req.IsActive
	}
	return 0, ""
}
