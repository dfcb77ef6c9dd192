package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Kariqs/bookbuy-api/common"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

const (
	msgInvalidInput        = "Invalid input"
	msgInvalidID           = "Invalid id"
	msgInternalServerError = "Internal server error"
)

func sendJSONResponse(ctx *gin.Context, status int, data any) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"status": "error", "message": message})
}

func sendSuccessResponse(ctx *gin.Context, status int, detail any) {
	sendJSONResponse(ctx, status, gin.H{"status": "success", "detail": detail})
}

// sendAppError writes err with the status of its kind. Internal and
// dependency failures are logged and their cause is not sent to the client.
func sendAppError(ctx *gin.Context, log *zap.Logger, err error) {
	_ = ctx.Error(err)
	kind := common.KindOf(err)
	message := common.MessageOf(err)

	switch kind {
	case common.KindInternal:
		log.Error("Request failed", zap.String("path", ctx.FullPath()), zap.Error(err))
		message = msgInternalServerError
	case common.KindUnavailable:
		log.Warn("Dependency unavailable", zap.String("path", ctx.FullPath()), zap.Error(err))
	}
	sendErrorResponse(ctx, kind.HTTPStatus(), message)
}

// sendBindingError reports which fields failed validation.
func sendBindingError(ctx *gin.Context, err error) {
	sendErrorResponse(ctx, http.StatusBadRequest, bindingMessage(err))
}

func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return msgInvalidInput
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// objectIDParam parses the named path parameter, answering 400 when it is not
// an ObjectID.
func objectIDParam(ctx *gin.Context, name string) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(ctx.Param(name))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidID)
		return bson.ObjectID{}, false
	}
	return id, true
}
