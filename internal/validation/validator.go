// Package validation validates request payloads with validator/v10 and
// reports failures as domain validation errors keyed by JSON field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yaqraapp/yaqra-server/internal/domain"
	domainerrors "github.com/yaqraapp/yaqra-server/internal/errors"
	"github.com/yaqraapp/yaqra-server/internal/rating"
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v     *validator.Validate
	scale int
}

// New creates a validator. Fields tagged "rating" must lie in 0..scale.
func New(scale int) *Validator {
	if scale < 1 {
		scale = rating.DefaultScale
	}
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("rating", func(fl validator.FieldLevel) bool {
		return rating.ValidScore(int(fl.Field().Int()), scale)
	})
	_ = v.RegisterValidation("discussion_tag", func(fl validator.FieldLevel) bool {
		switch domain.DiscussionTag(fl.Field().String()) {
		case domain.DiscussionTagDiscussion, domain.DiscussionTagArticle, domain.DiscussionTagNews:
			return true
		default:
			return false
		}
	})

	return &Validator{v: v, scale: scale}
}

// Validate validates a struct and returns a domain error.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// formatError converts validator errors to domain errors.
func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors[e.Namespace()[strings.Index(e.Namespace(), ".")+1:]] = v.friendlyMessage(e)
	}

	return domainerrors.ValidationWithDetails("validation failed", fieldErrors)
}

func (v *Validator) friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items", e.Param())
		}
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("must not contain more than %s items", e.Param())
		}
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "unique":
		return "must not contain duplicates"
	case "rating":
		return fmt.Sprintf("must be between 0 and %d", v.scale)
	case "discussion_tag":
		return "must be one of: discussion article news"
	default:
		return "is invalid"
	}
}
