package controllers

import (
	"io"
	"net/http"

	"github.com/Kariqs/bookbuy-api/models"
	"github.com/Kariqs/bookbuy-api/services"
	"github.com/Kariqs/bookbuy-api/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgImageRequired = "image: required"
	msgImageTooLarge = "Image size should not be more than 2MB"
)

type BookController struct {
	catalog *services.CatalogService
	log     *zap.Logger
}

func NewBookController(catalog *services.CatalogService, log *zap.Logger) *BookController {
	return &BookController{catalog: catalog, log: log}
}

// readImage reads the "image" part, at most one byte past the size limit so
// the catalog can reject oversized files without buffering them whole.
func readImage(ctx *gin.Context) ([]byte, bool) {
	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgImageRequired)
		return nil, false
	}
	if fileHeader.Size > utils.MaxImageSize {
		sendErrorResponse(ctx, http.StatusBadRequest, msgImageTooLarge)
		return nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgImageRequired)
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, utils.MaxImageSize+1))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgImageRequired)
		return nil, false
	}
	return data, true
}

// CreateBook takes a multipart form with the book fields and an image part.
func (c *BookController) CreateBook(ctx *gin.Context) {
	var data models.CreateBookData
	if err := ctx.ShouldBind(&data); err != nil {
		sendBindingError(ctx, err)
		return
	}
	image, ok := readImage(ctx)
	if !ok {
		return
	}

	book, err := c.catalog.CreateBook(ctx.Request.Context(), data, image)
	if err != nil {
		sendAppError(ctx, c.log, err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": "Book created", "book": book})
}

// GetBooks lists all books; ?title= narrows to titles containing it.
func (c *BookController) GetBooks(ctx *gin.Context) {
	books, err := c.catalog.ListBooks(ctx.Request.Context(), ctx.Query("title"))
	if err != nil {
		sendAppError(ctx, c.log, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Books found", "books": books})
}

func (c *BookController) GetBook(ctx *gin.Context) {
	id, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	book, err := c.catalog.GetBook(ctx.Request.Context(), id)
	if err != nil {
		sendAppError(ctx, c.log, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, book)
}

func (c *BookController) UpdateBook(ctx *gin.Context) {
	id, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	var data models.UpdateBookData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		sendBindingError(ctx, err)
		return
	}

	book, err := c.catalog.UpdateBook(ctx.Request.Context(), id, data)
	if err != nil {
		sendAppError(ctx, c.log, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Book updated", "book": book})
}

func (c *BookController) DeleteBook(ctx *gin.Context) {
	id, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.catalog.DeleteBook(ctx.Request.Context(), id); err != nil {
		sendAppError(ctx, c.log, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
