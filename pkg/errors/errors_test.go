package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	typed := Clone(ErrNotFound, "school not found")
	got := FromError(typed)
	assert.Equal(t, "NOT_FOUND", got.Code)
	assert.Equal(t, "school not found", got.Message)
	assert.Equal(t, http.StatusNotFound, got.Status)
}

func TestFromErrorWrapsPlainErrors(t *testing.T) {
	plain := stdErrors.New("boom")
	got := FromError(plain)
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.ErrorIs(t, got, plain)
}

func TestCloneDoesNotMutateOriginal(t *testing.T) {
	clone := Clone(ErrValidation, "description is required")
	assert.Equal(t, "validation failed", ErrValidation.Message)
	assert.Equal(t, "description is required", clone.Message)
	assert.Nil(t, FromError(nil))
}

func TestIsMatchesByCode(t *testing.T) {
	wrapped := Wrap(stdErrors.New("sql: no rows"), ErrNotFound.Code, http.StatusNotFound, "work request not found")
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.ErrorIs(t, Clone(ErrForbidden, "token mismatch"), ErrForbidden)
	assert.False(t, stdErrors.Is(Clone(ErrValidation, "x"), ErrNotFound))
}
