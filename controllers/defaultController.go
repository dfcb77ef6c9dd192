package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to BookBuy API. Enjoy seamless interaction with this API.

The following are the endpoints for this API:

USERS
- POST "/users/register" - Create user account
- POST "/users/activate-token" - Request an activation token
- PUT "/users/activated?token=" - Activate user account
- POST "/users/access-token" - Log in (form: username, password)
- GET "/users/me" - Current user
- POST "/users/change-password" - Change password
- POST "/users/logout" - Revoke the current token

CARTS
- POST "/carts/" - Create cart
- POST "/carts/add-book-to-cart" - Add a book to the cart
- DELETE "/carts/remove-book-from-cart" - Remove a book from the cart
- PUT "/carts/update-cart-item" - Set a book's quantity
- GET "/carts/" - Get cart with total price
- DELETE "/carts/" - Delete cart
- DELETE "/carts/:userId" - Delete a user's cart (admin)

AUTHORS
- POST "/authors/" - Create author (admin)
- GET "/authors/" - List authors
- GET "/authors/:id" - Get author
- PUT "/authors/:id" - Update author (admin)
- DELETE "/authors/:id" - Delete author (admin)

BOOKS
- POST "/books/" - Create book with cover image (admin)
- GET "/books/" - List books
- GET "/books/:id" - Get book
- PUT "/books/:id" - Update book (admin)
- DELETE "/books/:id" - Delete book (admin)`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}

func HealthCheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
