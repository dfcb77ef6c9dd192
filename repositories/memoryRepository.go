package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Kariqs/bookbuy-api/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// NewMemoryStore returns repositories backed by process memory. It serves
// DB_DRIVER=memory runs and the service and controller tests.
func NewMemoryStore() *Store {
	return &Store{
		Users:            NewMemoryUserRepository(),
		ActivationTokens: NewMemoryActivationTokenRepository(),
		Carts:            NewMemoryCartRepository(),
		Authors:          NewMemoryAuthorRepository(),
		Books:            NewMemoryBookRepository(),
	}
}

type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[bson.ObjectID]models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: map[bson.ObjectID]models.User{}}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id bson.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) SetActive(_ context.Context, id bson.ObjectID) error {
	return r.update(id, func(u *models.User) { u.IsActive = true })
}

func (r *MemoryUserRepository) UpdatePassword(_ context.Context, id bson.ObjectID, hashedPassword string) error {
	return r.update(id, func(u *models.User) { u.HashedPassword = hashedPassword })
}

func (r *MemoryUserRepository) update(id bson.ObjectID, fn func(*models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	fn(&u)
	r.users[id] = u
	return nil
}

type MemoryActivationTokenRepository struct {
	mu     sync.Mutex
	tokens map[bson.ObjectID]models.ActivationToken
}

func NewMemoryActivationTokenRepository() *MemoryActivationTokenRepository {
	return &MemoryActivationTokenRepository{tokens: map[bson.ObjectID]models.ActivationToken{}}
}

func (r *MemoryActivationTokenRepository) Create(_ context.Context, token *models.ActivationToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.UserID == token.UserID || t.ActivationToken == token.ActivationToken {
			return ErrDuplicate
		}
	}
	if token.ID.IsZero() {
		token.ID = bson.NewObjectID()
	}
	r.tokens[token.ID] = *token
	return nil
}

func (r *MemoryActivationTokenRepository) FindByUser(_ context.Context, userID bson.ObjectID) (*models.ActivationToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.UserID == userID {
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryActivationTokenRepository) Delete(_ context.Context, id bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, id)
	return nil
}

func (r *MemoryActivationTokenRepository) ConsumeValid(_ context.Context, token string, now time.Time) (*models.ActivationToken, error) {
	return r.deleteWhere(func(t models.ActivationToken) bool {
		return t.ActivationToken == token && !t.ExpiresAt.Before(now)
	})
}

func (r *MemoryActivationTokenRepository) DeleteByToken(_ context.Context, token string) (*models.ActivationToken, error) {
	return r.deleteWhere(func(t models.ActivationToken) bool { return t.ActivationToken == token })
}

func (r *MemoryActivationTokenRepository) deleteWhere(match func(models.ActivationToken) bool) (*models.ActivationToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.tokens {
		if match(t) {
			delete(r.tokens, id)
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

type MemoryCartRepository struct {
	mu    sync.Mutex
	carts map[bson.ObjectID]*models.Cart
}

func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{carts: map[bson.ObjectID]*models.Cart{}}
}

func copyCart(c *models.Cart) *models.Cart {
	out := *c
	out.Items = append([]models.CartItem{}, c.Items...)
	return &out
}

func (r *MemoryCartRepository) FindByUser(_ context.Context, userID bson.ObjectID) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyCart(c), nil
}

func (r *MemoryCartRepository) Create(_ context.Context, userID bson.ObjectID) (*models.Cart, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.carts[userID]; ok {
		return copyCart(c), false, nil
	}
	c := r.insert(userID)
	return copyCart(c), true, nil
}

func (r *MemoryCartRepository) insert(userID bson.ObjectID) *models.Cart {
	c := models.NewCart(userID, time.Now().UTC())
	c.ID = bson.NewObjectID()
	r.carts[userID] = c
	return c
}

func (r *MemoryCartRepository) AddItem(_ context.Context, userID, bookID bson.ObjectID, quantity int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := models.CheckQuantity(quantity); err != nil {
		return err
	}
	c, ok := r.carts[userID]
	if !ok {
		c = r.insert(userID)
	}
	if err := c.AddItem(bookID, quantity); err != nil {
		return err
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryCartRepository) RemoveItem(_ context.Context, userID, bookID bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[userID]
	if !ok {
		return ErrNotFound
	}
	if c.RemoveItem(bookID) {
		c.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (r *MemoryCartRepository) SetItemQuantity(_ context.Context, userID, bookID bson.ObjectID, quantity int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[userID]
	if !ok {
		return ErrNotFound
	}
	if err := c.SetQuantity(bookID, quantity); err != nil {
		return err
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryCartRepository) Delete(_ context.Context, userID bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	return nil
}

type MemoryAuthorRepository struct {
	mu      sync.Mutex
	authors map[bson.ObjectID]models.Author
}

func NewMemoryAuthorRepository() *MemoryAuthorRepository {
	return &MemoryAuthorRepository{authors: map[bson.ObjectID]models.Author{}}
}

func (r *MemoryAuthorRepository) Create(_ context.Context, author *models.Author) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if author.ID.IsZero() {
		author.ID = bson.NewObjectID()
	}
	r.authors[author.ID] = *author
	return nil
}

func (r *MemoryAuthorRepository) FindByID(_ context.Context, id bson.ObjectID) (*models.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.authors[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r *MemoryAuthorRepository) List(_ context.Context, filter models.AuthorFilter) ([]models.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	first, last := strings.ToLower(filter.FirstName), strings.ToLower(filter.LastName)
	out := []models.Author{}
	for _, a := range r.authors {
		if first != "" && a.FirstName != first {
			continue
		}
		if last != "" && a.LastName != last {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

func (r *MemoryAuthorRepository) Replace(_ context.Context, author *models.Author) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.authors[author.ID]; !ok {
		return ErrNotFound
	}
	r.authors[author.ID] = *author
	return nil
}

func (r *MemoryAuthorRepository) Delete(_ context.Context, id bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.authors[id]; !ok {
		return ErrNotFound
	}
	delete(r.authors, id)
	return nil
}

type MemoryBookRepository struct {
	mu    sync.Mutex
	books map[bson.ObjectID]models.Book
}

func NewMemoryBookRepository() *MemoryBookRepository {
	return &MemoryBookRepository{books: map[bson.ObjectID]models.Book{}}
}

func (r *MemoryBookRepository) Create(_ context.Context, book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if book.ID.IsZero() {
		book.ID = bson.NewObjectID()
	}
	r.books[book.ID] = *book
	return nil
}

func (r *MemoryBookRepository) FindByID(_ context.Context, id bson.ObjectID) (*models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (r *MemoryBookRepository) FindByIDs(_ context.Context, ids []bson.ObjectID) ([]models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Book{}
	for _, id := range ids {
		if b, ok := r.books[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *MemoryBookRepository) List(ctx context.Context) ([]models.Book, error) {
	return r.Search(ctx, "")
}

func (r *MemoryBookRepository) Search(_ context.Context, title string) ([]models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	needle := strings.ToLower(title)
	out := []models.Book{}
	for _, b := range r.books {
		if strings.Contains(strings.ToLower(b.Title), needle) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *MemoryBookRepository) Replace(_ context.Context, book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[book.ID]; !ok {
		return ErrNotFound
	}
	r.books[book.ID] = *book
	return nil
}

func (r *MemoryBookRepository) Delete(_ context.Context, id bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return ErrNotFound
	}
	delete(r.books, id)
	return nil
}
