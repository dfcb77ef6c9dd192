package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Kariqs/bookbuy-api/common"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestBindingMessage(t *testing.T) {
	type payload struct {
		Email    string `validate:"required,email"`
		Password string `validate:"min=8"`
	}
	err := validator.New().Struct(payload{Email: "", Password: "short"})
	require.Error(t, err)

	assert.Equal(t, "Email: required; Password: min=8", bindingMessage(err))
	assert.Equal(t, msgInvalidInput, bindingMessage(errors.New("EOF")))
}

func TestSendAppError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	cases := []struct {
		err     error
		status  int
		message string
	}{
		{common.NotFound("Book not found"), http.StatusNotFound, "Book not found"},
		{common.Conflict("taken"), http.StatusBadRequest, "taken"},
		{common.Unavailable("Service temporarily unavailable", errors.New("dial tcp")), http.StatusServiceUnavailable, "Service temporarily unavailable"},
		{common.Internal("failed to price cart", errors.New("boom")), http.StatusInternalServerError, msgInternalServerError},
		{errors.New("untyped"), http.StatusInternalServerError, msgInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		sendAppError(ctx, log, tc.err)

		assert.Equal(t, tc.status, w.Code)
		assert.JSONEq(t, `{"status":"error","message":"`+tc.message+`"}`, w.Body.String())
	}

	assert.Equal(t, 2, logs.FilterMessage("Request failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("Dependency unavailable").Len())
}
