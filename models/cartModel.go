package models

import (
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MaxItemQuantity caps the quantity of a single cart item.
const MaxItemQuantity = 10000

var (
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrQuantityLimit    = errors.New("quantity exceeds the per-item limit")
	ErrTotalOverflow    = errors.New("cart total overflows")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrMissingBook      = errors.New("cart references a book that no longer exists")
)

type CartItem struct {
	BookID   bson.ObjectID `bson:"book_id" json:"book_id"`
	Quantity int64         `bson:"quantity" json:"quantity"`
}

// Cart holds at most one item per book. The total price is derived on read and
// never stored.
type Cart struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    bson.ObjectID `bson:"user_id" json:"user_id"`
	Items     []CartItem    `bson:"cart_items" json:"cart_items"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updated_at"`
}

func NewCart(userID bson.ObjectID, now time.Time) *Cart {
	return &Cart{UserID: userID, Items: []CartItem{}, CreatedAt: now, UpdatedAt: now}
}

func (c *Cart) indexOf(bookID bson.ObjectID) int {
	for i, item := range c.Items {
		if item.BookID == bookID {
			return i
		}
	}
	return -1
}

// Item returns the item for bookID, if present.
func (c *Cart) Item(bookID bson.ObjectID) (CartItem, bool) {
	if i := c.indexOf(bookID); i >= 0 {
		return c.Items[i], true
	}
	return CartItem{}, false
}

// CheckQuantity validates a requested quantity against the per-item bounds.
func CheckQuantity(quantity int64) error {
	switch {
	case quantity < 1:
		return ErrInvalidQuantity
	case quantity > MaxItemQuantity:
		return ErrQuantityLimit
	}
	return nil
}

// AddItem merges quantity into the existing item for bookID or appends a new
// one. The merged quantity may not exceed MaxItemQuantity.
func (c *Cart) AddItem(bookID bson.ObjectID, quantity int64) error {
	if err := CheckQuantity(quantity); err != nil {
		return err
	}
	if i := c.indexOf(bookID); i >= 0 {
		if c.Items[i].Quantity > MaxItemQuantity-quantity {
			return ErrQuantityLimit
		}
		c.Items[i].Quantity += quantity
		return nil
	}
	c.Items = append(c.Items, CartItem{BookID: bookID, Quantity: quantity})
	return nil
}

// RemoveItem drops the item for bookID regardless of its quantity. It reports
// whether anything was removed.
func (c *Cart) RemoveItem(bookID bson.ObjectID) bool {
	i := c.indexOf(bookID)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return true
}

func (c *Cart) SetQuantity(bookID bson.ObjectID, quantity int64) error {
	if err := CheckQuantity(quantity); err != nil {
		return err
	}
	i := c.indexOf(bookID)
	if i < 0 {
		return ErrCartItemNotFound
	}
	c.Items[i].Quantity = quantity
	return nil
}

func (c *Cart) BookIDs() []bson.ObjectID {
	ids := make([]bson.ObjectID, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.BookID)
	}
	return ids
}

// TotalPrice sums price*quantity using the given price lookup. A book missing
// from prices is an integrity fault, as is a sum that does not fit in int64.
func (c *Cart) TotalPrice(prices map[bson.ObjectID]int64) (int64, error) {
	var total int64
	for _, item := range c.Items {
		price, ok := prices[item.BookID]
		if !ok {
			return 0, ErrMissingBook
		}
		line, ok := mulNonNegative(price, item.Quantity)
		if !ok || total > math.MaxInt64-line {
			return 0, ErrTotalOverflow
		}
		total += line
	}
	return total, nil
}

func mulNonNegative(a, b int64) (int64, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a != 0 && b > math.MaxInt64/a {
		return 0, false
	}
	return a * b, true
}

// CartView is the read model returned to clients.
type CartView struct {
	ID         bson.ObjectID `json:"_id"`
	Items      []CartItem    `json:"cart_items"`
	TotalPrice int64         `json:"total_price"`
}

type CartItemData struct {
	BookID   string `json:"book_id" binding:"required,objectid"`
	Quantity *int64 `json:"quantity" binding:"omitempty,lte=10000"`
}

// CreateCartData optionally seeds a new cart.
type CreateCartData struct {
	Items []CartItemData `json:"cart_items" binding:"omitempty,dive"`
}

// QuantityOr returns the requested quantity or def when it was omitted.
func (d CartItemData) QuantityOr(def int64) int64 {
	if d.Quantity == nil {
		return def
	}
	return *d.Quantity
}

type RemoveCartItemData struct {
	BookID string `json:"book_id" binding:"required,objectid"`
}
