package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Kariqs/bookbuy-api/common"
	"github.com/Kariqs/bookbuy-api/models"
	"github.com/Kariqs/bookbuy-api/repositories"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	msgCartNotFound    = "Cart not found"
	msgBookNotInCart   = "Book not found in cart"
	msgInvalidQuantity = "Quantity must be greater than zero"
)

var msgQuantityLimit = fmt.Sprintf("Quantity cannot exceed %d per book", models.MaxItemQuantity)

// BookCatalog is the catalog lookup the cart engine prices and checks against.
type BookCatalog interface {
	GetBook(ctx context.Context, id bson.ObjectID) (*models.Book, error)
	BooksByIDs(ctx context.Context, ids []bson.ObjectID) ([]models.Book, error)
}

// CartService is the cart engine. Mutations go through CartRepository, which
// applies each one atomically against the stored cart.
type CartService struct {
	carts   repositories.CartRepository
	catalog BookCatalog
}

func NewCartService(carts repositories.CartRepository, catalog BookCatalog) *CartService {
	return &CartService{carts: carts, catalog: catalog}
}

// Create returns the user's cart, creating one if needed. A new cart is seeded
// with items, merged as by Add; an existing cart is returned unchanged. created
// reports whether a new cart was made.
func (s *CartService) Create(ctx context.Context, userID bson.ObjectID, items []models.CartItem) (*models.CartView, bool, error) {
	seed := models.NewCart(userID, time.Time{})
	for _, item := range items {
		if err := checkQuantity(item.Quantity); err != nil {
			return nil, false, err
		}
		if err := seed.AddItem(item.BookID, item.Quantity); err != nil {
			return nil, false, common.Validation(msgQuantityLimit)
		}
	}
	for _, item := range seed.Items {
		if err := s.requireBook(ctx, item.BookID); err != nil {
			return nil, false, err
		}
	}

	cart, created, err := s.carts.Create(ctx, userID)
	if err != nil {
		return nil, false, repositories.StoreError("failed to create cart", err)
	}
	if created && len(seed.Items) > 0 {
		for _, item := range seed.Items {
			if err := s.carts.AddItem(ctx, userID, item.BookID, item.Quantity); err != nil {
				return nil, false, cartWriteError("failed to seed cart", err)
			}
		}
		if cart, err = s.carts.FindByUser(ctx, userID); err != nil {
			return nil, false, repositories.StoreError("failed to load cart", err)
		}
	}

	view, err := s.view(ctx, cart)
	if err != nil {
		return nil, false, err
	}
	return view, created, nil
}

// Add merges quantity of bookID into the user's cart.
func (s *CartService) Add(ctx context.Context, userID, bookID bson.ObjectID, quantity int64) error {
	if err := checkQuantity(quantity); err != nil {
		return err
	}
	if err := s.requireBook(ctx, bookID); err != nil {
		return err
	}
	if err := s.carts.AddItem(ctx, userID, bookID, quantity); err != nil {
		return cartWriteError("failed to add cart item", err)
	}
	return nil
}

// Remove drops bookID from the cart. Removing a book that is not in the cart
// succeeds.
func (s *CartService) Remove(ctx context.Context, userID, bookID bson.ObjectID) error {
	if err := s.requireBook(ctx, bookID); err != nil {
		return err
	}
	err := s.carts.RemoveItem(ctx, userID, bookID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return common.NotFound(msgCartNotFound)
	default:
		return repositories.StoreError("failed to remove cart item", err)
	}
}

// UpdateQuantity sets the absolute quantity of an item already in the cart.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, bookID bson.ObjectID, quantity int64) error {
	if err := checkQuantity(quantity); err != nil {
		return err
	}
	if err := s.requireBook(ctx, bookID); err != nil {
		return err
	}
	err := s.carts.SetItemQuantity(ctx, userID, bookID, quantity)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return common.NotFound(msgCartNotFound)
	case errors.Is(err, models.ErrCartItemNotFound):
		return common.NotFound(msgBookNotInCart)
	default:
		return cartWriteError("failed to update cart item", err)
	}
}

func (s *CartService) Get(ctx context.Context, userID bson.ObjectID) (*models.CartView, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NotFound(msgCartNotFound)
		}
		return nil, repositories.StoreError("failed to load cart", err)
	}
	return s.view(ctx, cart)
}

// Delete removes the user's cart. Deleting a missing cart succeeds.
func (s *CartService) Delete(ctx context.Context, userID bson.ObjectID) error {
	if err := s.carts.Delete(ctx, userID); err != nil {
		return repositories.StoreError("failed to delete cart", err)
	}
	return nil
}

func checkQuantity(quantity int64) error {
	switch err := models.CheckQuantity(quantity); {
	case errors.Is(err, models.ErrInvalidQuantity):
		return common.Validation(msgInvalidQuantity)
	case errors.Is(err, models.ErrQuantityLimit):
		return common.Validation(msgQuantityLimit)
	}
	return nil
}

func cartWriteError(op string, err error) error {
	if errors.Is(err, models.ErrQuantityLimit) {
		return common.Validation(msgQuantityLimit)
	}
	return repositories.StoreError(op, err)
}

func (s *CartService) requireBook(ctx context.Context, bookID bson.ObjectID) error {
	_, err := s.catalog.GetBook(ctx, bookID)
	return err
}

// view prices the cart against the current catalog.
func (s *CartService) view(ctx context.Context, cart *models.Cart) (*models.CartView, error) {
	books, err := s.catalog.BooksByIDs(ctx, cart.BookIDs())
	if err != nil {
		return nil, err
	}
	prices := make(map[bson.ObjectID]int64, len(books))
	for _, book := range books {
		prices[book.ID] = book.Price
	}

	total, err := cart.TotalPrice(prices)
	if err != nil {
		return nil, common.Internal("failed to price cart", err)
	}
	return &models.CartView{ID: cart.ID, Items: cart.Items, TotalPrice: total}, nil
}
