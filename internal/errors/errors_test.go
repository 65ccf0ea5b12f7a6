package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := NoChange("genres already exist")

	assert.True(t, Is(err, ErrNoChange))
	assert.False(t, Is(err, ErrNotFound))

	wrapped := fmt.Errorf("add genres: %w", err)
	assert.True(t, Is(wrapped, ErrNoChange))
}

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeForbidden, http.StatusForbidden},
		{CodeNoChange, http.StatusBadRequest},
		{CodeValidation, http.StatusBadRequest},
		{CodeDuplicateReview, http.StatusConflict},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeUnknownContentKind, http.StatusInternalServerError},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestCode_Expected(t *testing.T) {
	assert.True(t, CodeNoChange.Expected())
	assert.True(t, CodeDuplicateReview.Expected())
	assert.True(t, CodeForbidden.Expected())
	assert.False(t, CodeUnknownContentKind.Expected())
	assert.False(t, CodeInternal.Expected())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeForbidden, CodeOf(fmt.Errorf("wrap: %w", Forbidden("not yours"))))
	assert.Equal(t, CodeInternal, CodeOf(fmt.Errorf("disk on fire")))
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := fmt.Errorf("sqlite busy")
	err := Wrap(cause, CodeInternal, "toggle like")

	assert.Equal(t, "toggle like: sqlite busy", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.False(t, err.Code.Expected())
}
