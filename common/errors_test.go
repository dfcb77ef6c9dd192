package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_HTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindUnauthenticated, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindUnavailable, http.StatusServiceUnavailable},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.kind.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.kind.HTTPStatus())
		})
	}
}

func TestKindOf_WrappedChain(t *testing.T) {
	base := NotFound("book not found")
	wrapped := fmt.Errorf("adding to cart: %w", base)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.Equal(t, "book not found", MessageOf(wrapped))
}

func TestKindOf_PlainErrorIsInternal(t *testing.T) {
	err := errors.New("boom")

	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "Internal server error", MessageOf(err))
}

func TestError_UnwrapAndMessage(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Unavailable("cache unavailable", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "cache unavailable: dial tcp: refused", err.Error())
}
