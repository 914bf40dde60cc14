package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avelorn/blogward/config"
	"github.com/avelorn/blogward/controllers"
	"github.com/avelorn/blogward/middleware"
	"github.com/avelorn/blogward/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static("/static", "./static")

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	postController := controllers.NewPostController(db)
	commentController := controllers.NewCommentController(db)
	categoryController := controllers.NewCategoryController(db)
	profileController := controllers.NewProfileController(db)
	pageController := controllers.NewPageController(db)
	uploadController := controllers.NewUploadController()
	adminController := controllers.NewAdminController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Read paths where the anonymous viewer is a legal identity.
	public := api.Group("")
	public.Use(middleware.ViewerContext())
	public.GET("/posts", postController.ListPosts)
	public.GET("/categories/:slug/posts", categoryController.CategoryFeed)
	public.GET("/profiles/:username/posts", profileController.ProfileFeed)
	public.GET("/pages/:slug", pageController.GetPage)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())
	// The detail page is stricter than the feed: login required even for
	// fully public posts.
	protected.GET("/posts/:id", postController.GetPost)
	protected.POST("/posts", postController.CreatePost)
	protected.PUT("/posts/:id", postController.UpdatePost)
	protected.DELETE("/posts/:id", postController.DeletePost)
	protected.POST("/posts/:id/comments", commentController.CreateComment)
	protected.PUT("/comments/:commentId", commentController.UpdateComment)
	protected.DELETE("/comments/:commentId", commentController.DeleteComment)
	protected.PATCH("/profile", profileController.UpdateProfile)
	protected.POST("/upload", uploadController.UploadImage)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	admin.POST("/categories", adminController.CreateCategory)
	admin.PUT("/categories/:id", adminController.UpdateCategory)
	admin.DELETE("/categories/:id", adminController.DeleteCategory)
	admin.POST("/locations", adminController.CreateLocation)
	admin.PUT("/locations/:id", adminController.UpdateLocation)
	admin.DELETE("/locations/:id", adminController.DeleteLocation)
	admin.POST("/pages", adminController.CreatePage)
	admin.PUT("/pages/:id", adminController.UpdatePage)
	admin.DELETE("/pages/:id", adminController.DeletePage)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
