package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/Kariqs/bookbuy-api/middlewares"
	"github.com/Kariqs/bookbuy-api/models"
	"github.com/Kariqs/bookbuy-api/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

const msgCartUpdated = "Cart updated"

type CartController struct {
	carts *services.CartService
	log   *zap.Logger
}

func NewCartController(carts *services.CartService, log *zap.Logger) *CartController {
	return &CartController{carts: carts, log: log}
}

func currentUserID(ctx *gin.Context) (bson.ObjectID, bool) {
	user, ok := middlewares.CurrentUser(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgSessionNotFound)
		return bson.ObjectID{}, false
	}
	return user.ID, true
}

// CreateCart answers 201 when it made a new cart and 200 with the existing one.
// The body is optional; its cart_items seed a new cart.
func (c *CartController) CreateCart(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var data models.CreateCartData
	if err := ctx.ShouldBindJSON(&data); err != nil && !errors.Is(err, io.EOF) {
		sendBindingError(ctx, err)
		return
	}
	items := make([]models.CartItem, 0, len(data.Items))
	for _, item := range data.Items {
		bookID, _ := bson.ObjectIDFromHex(item.BookID)
		items = append(items, models.CartItem{BookID: bookID, Quantity: item.QuantityOr(1)})
	}

	view, created, err := c.carts.Create(ctx.Request.Context(), userID, items)
	if err != nil {
		sendAppError(ctx, c.log, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	sendJSONResponse(ctx, status, view)
}

// AddBookToCart merges the requested quantity, one when omitted.
func (c *CartController) AddBookToCart(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var data models.CartItemData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		sendBindingError(ctx, err)
		return
	}
	bookID, _ := bson.ObjectIDFromHex(data.BookID)

	if err := c.carts.Add(ctx.Request.Context(), userID, bookID, data.QuantityOr(1)); err != nil {
		sendAppError(ctx, c.log, err)
		return
	}

	sendSuccessResponse(ctx, http.StatusOK, msgCartUpdated)
}

func (c *CartController) RemoveBookFromCart(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var data models.RemoveCartItemData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		sendBindingError(ctx, err)
		return
	}
	bookID, _ := bson.ObjectIDFromHex(data.BookID)

	if err := c.carts.Remove(ctx.Request.Context(), userID, bookID); err != nil {
		sendAppError(ctx, c.log, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (c *CartController) UpdateCartItem(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var data models.CartItemData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		sendBindingError(ctx, err)
		return
	}
	bookID, _ := bson.ObjectIDFromHex(data.BookID)

	if err := c.carts.UpdateQuantity(ctx.Request.Context(), userID, bookID, data.QuantityOr(1)); err != nil {
		sendAppError(ctx, c.log, err)
		return
	}

	sendSuccessResponse(ctx, http.StatusOK, msgCartUpdated)
}

func (c *CartController) GetCart(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	view, err := c.carts.Get(ctx.Request.Context(), userID)
	if err != nil {
		sendAppError(ctx, c.log, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, view)
}

func (c *CartController) DeleteCart(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	c.deleteCart(ctx, userID)
}

// DeleteUserCart lets an admin clear another user's cart.
func (c *CartController) DeleteUserCart(ctx *gin.Context) {
	userID, ok := objectIDParam(ctx, "userId")
	if !ok {
		return
	}
	c.deleteCart(ctx, userID)
}

func (c *CartController) deleteCart(ctx *gin.Context, userID bson.ObjectID) {
	if err := c.carts.Delete(ctx.Request.Context(), userID); err != nil {
		sendAppError(ctx, c.log, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
