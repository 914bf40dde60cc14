package controllers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avelorn/blogward/middleware"
	"github.com/avelorn/blogward/models"
	"github.com/avelorn/blogward/utils"
)

// AuthController handles registration, login and session introspection. It
// exists to mint the viewer identity the rest of the application consumes.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)

// Register creates a local account.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	username := strings.TrimSpace(req.Username)
	if !usernamePattern.MatchString(username) {
		utils.Error(ctx, http.StatusBadRequest, 40002, "username must be 3-64 characters of letters, digits, dash or underscore")
		return
	}

	var existing int64
	if err := a.db.Model(&models.User{}).Where("username = ?", username).Count(&existing).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to check username")
		return
	}
	if existing > 0 {
		utils.Error(ctx, http.StatusBadRequest, 40003, "username already taken")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to hash password")
		return
	}

	user := models.User{
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
	}
	if err := a.db.Create(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to create user")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, 72*time.Hour)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Login authenticates a local account and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40004, "invalid request payload")
		return
	}

	var user models.User
	if err := a.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, 72*time.Hour)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Logout revokes the presented token until its natural expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 {
		token := strings.TrimSpace(parts[1])
		if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
			utils.BlacklistToken(token, claims.ExpiresAt.Time)
		}
	}
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated user's own record.
func (a *AuthController) Me(ctx *gin.Context) {
	viewer := middleware.CurrentViewer(ctx)
	if !viewer.Authenticated {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.First(&user, viewer.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40406, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50005, "failed to load user")
		return
	}

	utils.Success(ctx, gin.H{"user": user})
}
