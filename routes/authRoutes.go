package routes

import (
	"github.com/Kariqs/bookbuy-api/controllers"
	"github.com/gin-gonic/gin"
)

func AuthRoutes(server *gin.Engine, users *controllers.AuthController, requireAuth gin.HandlerFunc) {
	auth := server.Group("/users")
	{
		auth.POST("/register", users.Register)
		auth.POST("/activate-token", users.RequestActivationToken)
		auth.PUT("/activated", users.ActivateAccount)
		auth.POST("/access-token", users.AccessToken)
		auth.GET("/me", requireAuth, users.Me)
		auth.POST("/change-password", requireAuth, users.ChangePassword)
		auth.POST("/logout", requireAuth, users.Logout)
	}
}
