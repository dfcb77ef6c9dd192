package routes

import (
	"github.com/Kariqs/bookbuy-api/auth"
	"github.com/Kariqs/bookbuy-api/controllers"
	"github.com/Kariqs/bookbuy-api/middlewares"
	"github.com/gin-gonic/gin"
)

// Handlers groups the controllers the routes bind to.
type Handlers struct {
	Auth    *controllers.AuthController
	Carts   *controllers.CartController
	Authors *controllers.AuthorController
	Books   *controllers.BookController
}

func RegisterRoutes(server *gin.Engine, gate *auth.Gate, h Handlers) {
	requireAuth := middlewares.RequireAuth(gate)

	DefaultRoutes(server)
	AuthRoutes(server, h.Auth, requireAuth)
	CartRoutes(server, h.Carts, requireAuth)
	AuthorRoutes(server, h.Authors, requireAuth)
	BookRoutes(server, h.Books, requireAuth)
}
