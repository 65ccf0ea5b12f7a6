// Package response writes envelope-shaped JSON for requests that never reach
// an API operation, such as unknown routes and recovered panics.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	domainerrors "github.com/yaqraapp/yaqra-server/internal/errors"
)

// Envelope mirrors the failed shape of every API result.
type Envelope struct {
	Succeeded    bool   `json:"succeeded"`
	ErrorMessage string `json:"error_message,omitempty"`
	Code         string `json:"code,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		if logger != nil {
			logger.Error("Failed to encode JSON response", "error", err)
		}
	}
}

// Error writes a failed envelope carrying code and message.
func Error(w http.ResponseWriter, status int, code domainerrors.Code, message string, logger *slog.Logger) {
	JSON(w, status, Envelope{ErrorMessage: message, Code: string(code)}, logger)
}

// NotFound is a router fallback for unknown paths.
func NotFound(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		Error(w, http.StatusNotFound, domainerrors.CodeNotFound, "route not found", logger)
	}
}

// MethodNotAllowed is a router fallback for known paths with the wrong method.
func MethodNotAllowed(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		Error(w, http.StatusMethodNotAllowed, domainerrors.CodeValidation, "method "+r.Method+" not allowed", logger)
	}
}

// Recoverer turns a panic into a logged 500 envelope.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				if logger != nil {
					logger.Error("Panic serving request",
						"method", r.Method,
						"path", r.URL.Path,
						"panic", rec,
						"stack", string(debug.Stack()),
					)
				}
				Error(w, http.StatusInternalServerError, domainerrors.CodeInternal, "internal server error", logger)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
