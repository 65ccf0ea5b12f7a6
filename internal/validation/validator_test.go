package validation_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/yaqraapp/yaqra-server/internal/errors"
	"github.com/yaqraapp/yaqra-server/internal/validation"
)

type reviewRequest struct {
	BookID  string `json:"book_id" validate:"required"`
	Content string `json:"content" validate:"required,max=20"`
	Rating  int    `json:"rating" validate:"rating"`
}

type discussionRequest struct {
	Title   string   `json:"title" validate:"required"`
	Tag     string   `json:"tag" validate:"discussion_tag"`
	BookIDs []string `json:"book_ids,omitempty" validate:"max=2,unique,dive,required"`
}

func details(t *testing.T, err error) map[string]string {
	t.Helper()
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())
	d, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	return d
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New(5)

	assert.NoError(t, v.Validate(reviewRequest{BookID: "book-1", Content: "great", Rating: 5}))
	assert.NoError(t, v.Validate(discussionRequest{Title: "t", Tag: "news", BookIDs: []string{"a", "b"}}))
}

func TestValidator_Rating(t *testing.T) {
	v := validation.New(5)

	for _, score := range []int{6, -1} {
		d := details(t, v.Validate(reviewRequest{BookID: "b", Content: "c", Rating: score}))
		assert.Equal(t, "must be between 0 and 5", d["rating"])
	}

	tenPoint := validation.New(10)
	assert.NoError(t, tenPoint.Validate(reviewRequest{BookID: "b", Content: "c", Rating: 9}))
}

func TestValidator_FieldMessages(t *testing.T) {
	v := validation.New(5)

	d := details(t, v.Validate(reviewRequest{Content: "this content is far too long", Rating: 3}))
	assert.Equal(t, "is required", d["book_id"])
	assert.Equal(t, "must not exceed 20 characters", d["content"])

	d = details(t, v.Validate(discussionRequest{Title: "t", Tag: "gossip", BookIDs: []string{"a", "a", "b"}}))
	assert.Equal(t, "must be one of: discussion article news", d["tag"])
	assert.Equal(t, "must not contain more than 2 items", d["book_ids"])
}

func TestValidator_DiveUsesIndexedNames(t *testing.T) {
	v := validation.New(5)

	d := details(t, v.Validate(discussionRequest{Title: "t", Tag: "news", BookIDs: []string{"a", ""}}))
	assert.Equal(t, "is required", d["book_ids[1]"])
}
