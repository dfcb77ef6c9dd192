package routes

import (
	"github.com/Kariqs/bookbuy-api/controllers"
	"github.com/Kariqs/bookbuy-api/middlewares"
	"github.com/gin-gonic/gin"
)

func CartRoutes(server *gin.Engine, carts *controllers.CartController, requireAuth gin.HandlerFunc) {
	cart := server.Group("/carts", requireAuth)
	{
		cart.POST("/", carts.CreateCart)
		cart.POST("/add-book-to-cart", carts.AddBookToCart)
		cart.DELETE("/remove-book-from-cart", carts.RemoveBookFromCart)
		cart.PUT("/update-cart-item", carts.UpdateCartItem)
		cart.GET("/", carts.GetCart)
		cart.DELETE("/", carts.DeleteCart)
		cart.DELETE("/:userId", middlewares.RequireAdmin(), carts.DeleteUserCart)
	}
}
