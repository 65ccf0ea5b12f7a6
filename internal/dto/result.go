package dto

import (
	"encoding/json"

	domainerrors "github.com/yaqraapp/yaqra-server/internal/errors"
)

// Result is the envelope every service operation returns. Callers branch on
// Succeeded only; ErrorMessage is human readable and informational.
type Result[T any] struct {
	Result       T      `json:"result"`
	ErrorMessage string `json:"error_message,omitempty"`
	Succeeded    bool   `json:"succeeded"`

	code domainerrors.Code
}

// Ok wraps a successful value.
func Ok[T any](v T) *Result[T] {
	return &Result[T]{Result: v, Succeeded: true}
}

// Fail builds a failed result from an expected domain error.
func Fail[T any](err *domainerrors.Error) *Result[T] {
	return &Result[T]{ErrorMessage: err.Message, code: err.Code}
}

// Code returns the domain code behind a failed result, or the empty code on success.
// It exists for transport adapters choosing a status; it is not part of the envelope.
func (r *Result[T]) Code() domainerrors.Code {
	return r.code
}

// MarshalJSON always writes result on success, even when it is a zero value,
// and writes it as null on failure.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	type envelope struct {
		Result       any    `json:"result"`
		ErrorMessage string `json:"error_message,omitempty"`
		Succeeded    bool   `json:"succeeded"`
	}
	e := envelope{ErrorMessage: r.ErrorMessage, Succeeded: r.Succeeded}
	if r.Succeeded {
		e.Result = r.Result
	}
	return json.Marshal(e)
}
