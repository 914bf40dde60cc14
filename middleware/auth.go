package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avelorn/blogward/policy"
	"github.com/avelorn/blogward/utils"
)

const (
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
)

// AuthRequired ensures the request is authenticated via JWT.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid authorization header format")
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40103, "empty bearer token")
			ctx.Abort()
			return
		}

		if utils.IsTokenBlacklisted(tokenString) {
			utils.Error(ctx, http.StatusUnauthorized, 40104, "token revoked")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Next()
	}
}

// ViewerContext resolves the viewer identity on read paths where anonymous
// access is allowed. A missing, malformed or revoked token simply yields the
// anonymous viewer instead of an error.
func ViewerContext() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			ctx.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			ctx.Next()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" || utils.IsTokenBlacklisted(tokenString) {
			ctx.Next()
			return
		}

		if claims, err := utils.ParseToken(tokenString); err == nil {
			ctx.Set(ContextUserIDKey, claims.UserID)
			ctx.Set(ContextUsernameKey, claims.Username)
		}
		ctx.Next()
	}
}

// CurrentViewer returns the viewer identity stored by AuthRequired or
// ViewerContext. The anonymous viewer is returned when nothing was stored.
func CurrentViewer(ctx *gin.Context) policy.Viewer {
	value, exists := ctx.Get(ContextUserIDKey)
	if !exists {
		return policy.Anonymous
	}

	var id uint
	switch v := value.(type) {
	case uint:
		id = v
	case int:
		id = uint(v)
	case int64:
		id = uint(v)
	case float64:
		id = uint(v)
	default:
		return policy.Anonymous
	}

	username, _ := ctx.Get(ContextUsernameKey)
	name, _ := username.(string)
	return policy.Viewer{ID: id, Username: name, Authenticated: true}
}
