package routes

import (
	"github.com/Kariqs/bookbuy-api/controllers"
	"github.com/Kariqs/bookbuy-api/middlewares"
	"github.com/gin-gonic/gin"
)

func AuthorRoutes(server *gin.Engine, authors *controllers.AuthorController, requireAuth gin.HandlerFunc) {
	author := server.Group("/authors")
	{
		author.GET("/", authors.GetAuthors)
		author.GET("/:id", authors.GetAuthor)
	}

	admin := server.Group("/authors", requireAuth, middlewares.RequireAdmin())
	{
		admin.POST("/", authors.CreateAuthor)
		admin.PUT("/:id", authors.UpdateAuthor)
		admin.DELETE("/:id", authors.DeleteAuthor)
	}
}
