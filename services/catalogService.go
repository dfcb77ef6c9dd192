package services

import (
	"bytes"
	"context"
	"errors"
	"path"
	"strings"

	"github.com/Kariqs/bookbuy-api/common"
	"github.com/Kariqs/bookbuy-api/models"
	"github.com/Kariqs/bookbuy-api/repositories"
	"github.com/Kariqs/bookbuy-api/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	msgAuthorNotFound  = "Author not found"
	msgBookNotFound    = "Book not found"
	msgImageTooLarge   = "Image size should not be more than 2MB"
	msgImageBadFormat  = "Only jpeg, jpg and png images are allowed"
	msgImageUploadFail = "Image upload failed"
	imageKeyPrefix     = "book_buy"
)

// CatalogService manages authors and books.
type CatalogService struct {
	authors repositories.AuthorRepository
	books   repositories.BookRepository
	images  utils.ImageUploader
}

func NewCatalogService(authors repositories.AuthorRepository, books repositories.BookRepository, images utils.ImageUploader) *CatalogService {
	return &CatalogService{authors: authors, books: books, images: images}
}

func lookupError(err error, notFound, op string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return common.NotFound(notFound)
	}
	return repositories.StoreError(op, err)
}

func (s *CatalogService) CreateAuthor(ctx context.Context, data models.CreateAuthorData) (*models.Author, error) {
	author := &models.Author{
		FirstName: strings.ToLower(strings.TrimSpace(data.FirstName)),
		LastName:  strings.ToLower(strings.TrimSpace(data.LastName)),
	}
	if err := s.authors.Create(ctx, author); err != nil {
		return nil, repositories.StoreError("failed to create author", err)
	}
	return author, nil
}

func (s *CatalogService) ListAuthors(ctx context.Context, filter models.AuthorFilter) ([]models.Author, error) {
	authors, err := s.authors.List(ctx, filter)
	if err != nil {
		return nil, repositories.StoreError("failed to list authors", err)
	}
	return authors, nil
}

func (s *CatalogService) GetAuthor(ctx context.Context, id bson.ObjectID) (*models.Author, error) {
	author, err := s.authors.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, msgAuthorNotFound, "failed to load author")
	}
	return author, nil
}

// UpdateAuthor applies the fields present in data.
func (s *CatalogService) UpdateAuthor(ctx context.Context, id bson.ObjectID, data models.UpdateAuthorData) (*models.Author, error) {
	author, err := s.GetAuthor(ctx, id)
	if err != nil {
		return nil, err
	}
	if data.FirstName != nil {
		author.FirstName = strings.ToLower(strings.TrimSpace(*data.FirstName))
	}
	if data.LastName != nil {
		author.LastName = strings.ToLower(strings.TrimSpace(*data.LastName))
	}
	if err := s.authors.Replace(ctx, author); err != nil {
		return nil, lookupError(err, msgAuthorNotFound, "failed to update author")
	}
	return author, nil
}

func (s *CatalogService) DeleteAuthor(ctx context.Context, id bson.ObjectID) error {
	if err := s.authors.Delete(ctx, id); err != nil {
		return lookupError(err, msgAuthorNotFound, "failed to delete author")
	}
	return nil
}

// CreateBook uploads the cover image and stores the book. The image type is
// sniffed from its bytes.
func (s *CatalogService) CreateBook(ctx context.Context, data models.CreateBookData, image []byte) (*models.Book, error) {
	authorID, err := bson.ObjectIDFromHex(data.AuthorID)
	if err != nil {
		return nil, common.Validation("Invalid author_id")
	}
	if _, err := s.GetAuthor(ctx, authorID); err != nil {
		return nil, err
	}

	contentType, ext, err := utils.DetectImage(image)
	switch {
	case errors.Is(err, utils.ErrImageTooLarge):
		return nil, common.Validation(msgImageTooLarge)
	case err != nil:
		return nil, common.Validation(msgImageBadFormat)
	}

	key := path.Join(imageKeyPrefix, bson.NewObjectID().Hex()+ext)
	imageURL, err := s.images.Upload(ctx, key, contentType, bytes.NewReader(image))
	if err != nil {
		return nil, common.Unavailable(msgImageUploadFail, err)
	}

	book := &models.Book{
		Title:       data.Title,
		ISBN:        data.ISBN,
		Price:       data.Price,
		Description: data.Description,
		Language:    data.Language,
		AuthorID:    authorID,
		Genre:       splitGenres(data.Genre),
		ImageURL:    imageURL,
	}
	if err := s.books.Create(ctx, book); err != nil {
		return nil, repositories.StoreError("failed to create book", err)
	}
	return book, nil
}

// splitGenres accepts a comma separated genre list.
func splitGenres(raw string) []string {
	genres := []string{}
	for _, g := range strings.Split(raw, ",") {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}

// ListBooks returns all books, or those whose title contains title.
func (s *CatalogService) ListBooks(ctx context.Context, title string) ([]models.Book, error) {
	var (
		books []models.Book
		err   error
	)
	if title = strings.TrimSpace(title); title != "" {
		books, err = s.books.Search(ctx, title)
	} else {
		books, err = s.books.List(ctx)
	}
	if err != nil {
		return nil, repositories.StoreError("failed to list books", err)
	}
	return books, nil
}

func (s *CatalogService) GetBook(ctx context.Context, id bson.ObjectID) (*models.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, msgBookNotFound, "failed to load book")
	}
	return book, nil
}

// BooksByIDs returns the books that exist among ids.
func (s *CatalogService) BooksByIDs(ctx context.Context, ids []bson.ObjectID) ([]models.Book, error) {
	if len(ids) == 0 {
		return []models.Book{}, nil
	}
	books, err := s.books.FindByIDs(ctx, ids)
	if err != nil {
		return nil, repositories.StoreError("failed to load books", err)
	}
	return books, nil
}

// UpdateBook applies the fields present in data. A changed author must exist.
func (s *CatalogService) UpdateBook(ctx context.Context, id bson.ObjectID, data models.UpdateBookData) (*models.Book, error) {
	book, err := s.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}

	if data.AuthorID != nil {
		authorID, err := bson.ObjectIDFromHex(*data.AuthorID)
		if err != nil {
			return nil, common.Validation("Invalid author_id")
		}
		if _, err := s.GetAuthor(ctx, authorID); err != nil {
			return nil, err
		}
		book.AuthorID = authorID
	}
	if data.Title != nil {
		book.Title = *data.Title
	}
	if data.Description != nil {
		book.Description = *data.Description
	}
	if data.Price != nil {
		book.Price = *data.Price
	}
	if data.ISBN != nil {
		book.ISBN = *data.ISBN
	}
	if data.Language != nil {
		book.Language = *data.Language
	}
	if data.Genre != nil {
		book.Genre = data.Genre
	}

	if err := s.books.Replace(ctx, book); err != nil {
		return nil, lookupError(err, msgBookNotFound, "failed to update book")
	}
	return book, nil
}

func (s *CatalogService) DeleteBook(ctx context.Context, id bson.ObjectID) error {
	if err := s.books.Delete(ctx, id); err != nil {
		return lookupError(err, msgBookNotFound, "failed to delete book")
	}
	return nil
}
