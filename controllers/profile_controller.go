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
	"github.com/avelorn/blogward/utils"
)

// ProfileController serves user profile feeds and profile updates.
type ProfileController struct {
	db *gorm.DB
}

// NewProfileController creates a new ProfileController instance.
func NewProfileController(db *gorm.DB) *ProfileController {
	return &ProfileController{db: db}
}

// ProfileFeed returns one user's post feed. The owner sees every post they
// wrote, hidden and scheduled ones included; every other viewer sees only the
// publicly visible subset. is_owner tells the client which it got.
func (pc *ProfileController) ProfileFeed(ctx *gin.Context) {
	username := strings.TrimSpace(ctx.Param("username"))
	if username == "" {
		utils.Error(ctx, http.StatusBadRequest, 40050, "missing username")
		return
	}
	page := parsePage(ctx.Query("page"))

	var profile models.User
	if err := pc.db.Where("username = ?", username).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40406, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load user")
		return
	}

	viewer := middleware.CurrentViewer(ctx)
	owner := viewer.Is(profile.ID)

	// Only the public variant is cacheable; the owner's feed depends on the
	// viewer.
	cacheKey := fmt.Sprintf("cache:feed:profile:%d:page=%d", profile.ID, page)
	if !owner {
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	posts, pagination, err := feeds.Profile(pc.db, profile.ID, owner, time.Now(), page)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to list user posts")
		return
	}

	payload := gin.H{
		"profile":    profile,
		"is_owner":   owner,
		"items":      posts,
		"pagination": pagination,
	}
	if !owner {
		cacheEnvelope(cacheKey, payload)
	}
	utils.Success(ctx, payload)
}

// UpdateProfile lets the authenticated user edit their own record. The target
// is always the viewer; there is no way to address another user's profile.
func (pc *ProfileController) UpdateProfile(ctx *gin.Context) {
	viewer := middleware.CurrentViewer(ctx)
	if !viewer.Authenticated {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40051, "invalid request payload")
		return
	}

	var user models.User
	if err := pc.db.First(&user, viewer.ID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40406, "user not found")
		return
	}

	if v := strings.TrimSpace(req.Username); v != "" && v != user.Username {
		var n int64
		if err := pc.db.Model(&models.User{}).Where("username = ?", v).Count(&n).Error; err != nil || n > 0 {
			utils.Error(ctx, http.StatusBadRequest, 40052, "username already taken")
			return
		}
		user.Username = v
	}
	if v := strings.TrimSpace(req.Email); v != "" {
		user.Email = v
	}
	user.FirstName = strings.TrimSpace(utils.Sanitize(req.FirstName))
	user.LastName = strings.TrimSpace(utils.Sanitize(req.LastName))

	if err := pc.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to update profile")
		return
	}

	utils.InvalidateByPrefix("cache:feed:profile:" + strconv.Itoa(int(user.ID)))

	// The client navigates to the viewer's own profile feed.
	utils.Success(ctx, gin.H{
		"user":     user,
		"redirect": "/profiles/" + user.Username + "/posts",
	})
}
