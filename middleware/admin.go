package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avelorn/blogward/config"
	"github.com/avelorn/blogward/utils"
)

// AdminRequired restricts a route group to configured administrator usernames.
// The admin surface manages categories, locations and static pages and sits
// entirely outside the ownership rules that govern posts and comments.
// Must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		unameVal, exists := ctx.Get(ContextUsernameKey)
		uname, _ := unameVal.(string)
		if !exists || uname == "" {
			utils.Error(ctx, http.StatusForbidden, 40310, "admin access required")
			ctx.Abort()
			return
		}

		cfg := config.Get()
		for _, u := range cfg.AdminUsernames {
			if strings.EqualFold(strings.TrimSpace(u), uname) {
				ctx.Next()
				return
			}
		}

		utils.Error(ctx, http.StatusForbidden, 40310, "admin access required")
		ctx.Abort()
	}
}
