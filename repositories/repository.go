// Package repositories is the persistence boundary. Each repository has a
// MongoDB implementation and an in-memory one with the same atomicity.
package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Kariqs/bookbuy-api/common"
	"github.com/Kariqs/bookbuy-api/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrDuplicate   = errors.New("duplicate key")
	ErrUnavailable = errors.New("store unavailable")
)

// StoreError converts an unexpected repository error into an application
// error: unreachable stores become KindUnavailable, the rest KindInternal.
func StoreError(op string, err error) error {
	if errors.Is(err, ErrUnavailable) {
		return common.Unavailable("Service temporarily unavailable", err)
	}
	return common.Internal(op, err)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	SetActive(ctx context.Context, id bson.ObjectID) error
	UpdatePassword(ctx context.Context, id bson.ObjectID, hashedPassword string) error
}

type ActivationTokenRepository interface {
	Create(ctx context.Context, token *models.ActivationToken) error
	FindByUser(ctx context.Context, userID bson.ObjectID) (*models.ActivationToken, error)
	Delete(ctx context.Context, id bson.ObjectID) error
	// ConsumeValid deletes and returns the token if it has not expired at now.
	ConsumeValid(ctx context.Context, token string, now time.Time) (*models.ActivationToken, error)
	// DeleteByToken deletes and returns the token whatever its expiry.
	DeleteByToken(ctx context.Context, token string) (*models.ActivationToken, error)
}

// CartRepository applies cart mutations atomically per document.
type CartRepository interface {
	FindByUser(ctx context.Context, userID bson.ObjectID) (*models.Cart, error)
	// Create returns the user's cart, creating an empty one when none exists.
	Create(ctx context.Context, userID bson.ObjectID) (*models.Cart, bool, error)
	// AddItem merges quantity into the item for bookID, creating the cart and
	// the item as needed. It returns models.ErrQuantityLimit when the merged
	// quantity would exceed models.MaxItemQuantity.
	AddItem(ctx context.Context, userID, bookID bson.ObjectID, quantity int64) error
	// RemoveItem returns ErrNotFound when the user has no cart. A missing item
	// is not an error.
	RemoveItem(ctx context.Context, userID, bookID bson.ObjectID) error
	// SetItemQuantity returns ErrNotFound when the user has no cart and
	// models.ErrCartItemNotFound when the cart lacks the item.
	SetItemQuantity(ctx context.Context, userID, bookID bson.ObjectID, quantity int64) error
	Delete(ctx context.Context, userID bson.ObjectID) error
}

type AuthorRepository interface {
	Create(ctx context.Context, author *models.Author) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Author, error)
	List(ctx context.Context, filter models.AuthorFilter) ([]models.Author, error)
	Replace(ctx context.Context, author *models.Author) error
	Delete(ctx context.Context, id bson.ObjectID) error
}

type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	FindByID(ctx context.Context, id bson.ObjectID) (*models.Book, error)
	FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]models.Book, error)
	List(ctx context.Context) ([]models.Book, error)
	Search(ctx context.Context, title string) ([]models.Book, error)
	Replace(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id bson.ObjectID) error
}

// Store groups the repositories the services are built from.
type Store struct {
	Users            UserRepository
	ActivationTokens ActivationTokenRepository
	Carts            CartRepository
	Authors          AuthorRepository
	Books            BookRepository
}
