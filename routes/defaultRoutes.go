package routes

import (
	"github.com/Kariqs/bookbuy-api/controllers"
	"github.com/gin-gonic/gin"
)

func DefaultRoutes(server *gin.Engine) {
	server.GET("/", controllers.GetHome)
	server.GET("/healthcheck", controllers.HealthCheck)
}
