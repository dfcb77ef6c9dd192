package controllers

import (
	"net/http"

	"github.com/Kariqs/bookbuy-api/models"
	"github.com/Kariqs/bookbuy-api/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthorController struct {
	catalog *services.CatalogService
	log     *zap.Logger
}

func NewAuthorController(catalog *services.CatalogService, log *zap.Logger) *AuthorController {
	return &AuthorController{catalog: catalog, log: log}
}

func (c *AuthorController) CreateAuthor(ctx *gin.Context) {
	var data models.CreateAuthorData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		sendBindingError(ctx, err)
		return
	}

	author, err := c.catalog.CreateAuthor(ctx.Request.Context(), data)
	if err != nil {
		sendAppError(ctx, c.log, err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": "Author created", "author": author})
}

// GetAuthors filters by exact first_name and last_name, ignoring case.
func (c *AuthorController) GetAuthors(ctx *gin.Context) {
	var filter models.AuthorFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		sendBindingError(ctx, err)
		return
	}

	authors, err := c.catalog.ListAuthors(ctx.Request.Context(), filter)
	if err != nil {
		sendAppError(ctx, c.log, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"authors": authors})
}

func (c *AuthorController) GetAuthor(ctx *gin.Context) {
	id, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	author, err := c.catalog.GetAuthor(ctx.Request.Context(), id)
	if err != nil {
		sendAppError(ctx, c.log, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, author)
}

func (c *AuthorController) UpdateAuthor(ctx *gin.Context) {
	id, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	var data models.UpdateAuthorData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		sendBindingError(ctx, err)
		return
	}

	author, err := c.catalog.UpdateAuthor(ctx.Request.Context(), id, data)
	if err != nil {
		sendAppError(ctx, c.log, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Author updated", "author": author})
}

func (c *AuthorController) DeleteAuthor(ctx *gin.Context) {
	id, ok := objectIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.catalog.DeleteAuthor(ctx.Request.Context(), id); err != nil {
		sendAppError(ctx, c.log, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
