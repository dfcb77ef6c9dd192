package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Kariqs/bookbuy-api/common"
	"github.com/Kariqs/bookbuy-api/models"
	"github.com/Kariqs/bookbuy-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func seedAuthor(t *testing.T, app *testApp) *models.Author {
	t.Helper()
	author, err := app.catalog.CreateAuthor(context.Background(), models.CreateAuthorData{FirstName: "Chinua", LastName: "Achebe"})
	require.NoError(t, err)
	return author
}

func bookData(authorID bson.ObjectID) models.CreateBookData {
	return models.CreateBookData{
		Title:       "Things Fall Apart",
		Description: "A novel",
		Price:       1500,
		ISBN:        "9780385474542",
		Language:    "English",
		AuthorID:    authorID.Hex(),
		Genre:       "fiction, classic",
	}
}

func TestCatalogService_AuthorsLowercasedAndFiltered(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	author := seedAuthor(t, app)
	assert.Equal(t, "chinua", author.FirstName)
	assert.Equal(t, "achebe", author.LastName)

	_, err := app.catalog.CreateAuthor(ctx, models.CreateAuthorData{FirstName: "Ngugi", LastName: "Thiong'o"})
	require.NoError(t, err)

	found, err := app.catalog.ListAuthors(ctx, models.AuthorFilter{LastName: "ACHEBE"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, author.ID, found[0].ID)
}

func TestCatalogService_UpdateAndDeleteAuthor(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	author := seedAuthor(t, app)

	first := "Albert"
	updated, err := app.catalog.UpdateAuthor(ctx, author.ID, models.UpdateAuthorData{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "albert", updated.FirstName)
	assert.Equal(t, "achebe", updated.LastName)

	require.NoError(t, app.catalog.DeleteAuthor(ctx, author.ID))

	err = app.catalog.DeleteAuthor(ctx, author.ID)
	assert.Equal(t, msgAuthorNotFound, common.MessageOf(err))
	_, err = app.catalog.GetAuthor(ctx, author.ID)
	assert.True(t, common.IsKind(err, common.KindNotFound))
}

func TestCatalogService_CreateBook(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	author := seedAuthor(t, app)

	book, err := app.catalog.CreateBook(ctx, bookData(author.ID), pngImage)
	require.NoError(t, err)

	assert.Equal(t, author.ID, book.AuthorID)
	assert.Equal(t, []string{"fiction", "classic"}, book.Genre)
	require.Len(t, app.uploader.keys, 1)
	assert.True(t, strings.HasPrefix(app.uploader.keys[0], "book_buy/"))
	assert.True(t, strings.HasSuffix(app.uploader.keys[0], ".png"))
	assert.Equal(t, "image/png", app.uploader.contentTypes[0])
	assert.Equal(t, "https://images.example.com/"+app.uploader.keys[0], book.ImageURL)

	got, err := app.catalog.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.Title, got.Title)
}

func TestCatalogService_CreateBookRejections(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	author := seedAuthor(t, app)

	_, err := app.catalog.CreateBook(ctx, bookData(bson.NewObjectID()), pngImage)
	assert.Equal(t, msgAuthorNotFound, common.MessageOf(err))

	_, err = app.catalog.CreateBook(ctx, bookData(author.ID), []byte("%PDF-1.4"))
	assert.Equal(t, msgImageBadFormat, common.MessageOf(err))

	big := append(append([]byte{}, pngImage...), bytes.Repeat([]byte{0}, utils.MaxImageSize)...)
	_, err = app.catalog.CreateBook(ctx, bookData(author.ID), big)
	assert.Equal(t, msgImageTooLarge, common.MessageOf(err))
	assert.Equal(t, 400, common.KindOf(err).HTTPStatus())

	app.uploader.err = errUploadDown
	_, err = app.catalog.CreateBook(ctx, bookData(author.ID), pngImage)
	assert.True(t, common.IsKind(err, common.KindUnavailable))

	books, err := app.catalog.ListBooks(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestCatalogService_UpdateBook(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	author := seedAuthor(t, app)
	book, err := app.catalog.CreateBook(ctx, bookData(author.ID), pngImage)
	require.NoError(t, err)

	price := int64(2000)
	updated, err := app.catalog.UpdateBook(ctx, book.ID, models.UpdateBookData{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, price, updated.Price)
	assert.Equal(t, book.Title, updated.Title)

	missing := bson.NewObjectID().Hex()
	_, err = app.catalog.UpdateBook(ctx, book.ID, models.UpdateBookData{AuthorID: &missing})
	assert.Equal(t, msgAuthorNotFound, common.MessageOf(err))

	_, err = app.catalog.UpdateBook(ctx, bson.NewObjectID(), models.UpdateBookData{Price: &price})
	assert.Equal(t, msgBookNotFound, common.MessageOf(err))
}

func TestCatalogService_ListBooksByTitle(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	seedBook(t, app, "Arrow of God", 10)
	seedBook(t, app, "No Longer at Ease", 12)

	books, err := app.catalog.ListBooks(ctx, "arrow")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Arrow of God", books[0].Title)

	books, err = app.catalog.ListBooks(ctx, "")
	require.NoError(t, err)
	assert.Len(t, books, 2)
}
