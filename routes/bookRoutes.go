package routes

import (
	"github.com/Kariqs/bookbuy-api/controllers"
	"github.com/Kariqs/bookbuy-api/middlewares"
	"github.com/gin-gonic/gin"
)

func BookRoutes(server *gin.Engine, books *controllers.BookController, requireAuth gin.HandlerFunc) {
	book := server.Group("/books")
	{
		book.GET("/", books.GetBooks)
		book.GET("/:id", books.GetBook)
	}

	admin := server.Group("/books", requireAuth, middlewares.RequireAdmin())
	{
		admin.POST("/", books.CreateBook)
		admin.PUT("/:id", books.UpdateBook)
		admin.DELETE("/:id", books.DeleteBook)
	}
}
