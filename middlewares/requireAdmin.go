package middlewares

import (
	"net/http"

	"github.com/Kariqs/bookbuy-api/auth"
	"github.com/gin-gonic/gin"
)

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, exists := CurrentUser(ctx)
		if !exists {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "User not found in context"})
			return
		}

		if _, err := auth.RequireAdmin(user); err != nil {
			abortWithError(ctx, err)
			return
		}

		ctx.Next()
	}
}
