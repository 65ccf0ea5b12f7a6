// Package service composes the membership and engagement components into the
// operations exposed over HTTP.
//
// Every operation returns a result envelope. Recoverable outcomes (not found,
// forbidden, no change, duplicate review, invalid input) come back as a failed
// envelope with a nil error; only storage failures and unknown content kinds
// are returned as errors.
package service

import (
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/yaqraapp/yaqra-server/internal/dto"
	domainerrors "github.com/yaqraapp/yaqra-server/internal/errors"
	"github.com/yaqraapp/yaqra-server/internal/store"
)

// Pagination holds the default page sizes per listing.
type Pagination struct {
	Posts    int
	Comments int
	Books    int
}

// fail folds an expected domain error into a failed envelope. Anything else
// is returned as an error.
func fail[T any](err error) (*dto.Result[T], error) {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) && domainErr.Code.Expected() {
		return dto.Fail[T](domainErr), nil
	}
	return nil, err
}

// storeErr translates store sentinels into domain errors about what.
// Other errors are wrapped with the action that failed.
func storeErr(err error, action, what string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFoundf("%s not found", what)
	case errors.Is(err, store.ErrAlreadyExists):
		return domainerrors.AlreadyExists(what + " already exists")
	default:
		return domainerrors.Wrap(err, domainerrors.CodeInternal, action+" "+what)
	}
}

// cleanText trims s and puts it in canonical composed form so that visually
// identical names compare equal.
func cleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func cleanOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := cleanText(*s)
	return &v
}
