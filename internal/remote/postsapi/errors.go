package postsapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"Postdeck/internal/core/posts"
)

// ErrCircuitOpen is wrapped in the *posts.TransportError returned while an operation fails fast
var ErrCircuitOpen = errors.New("circuit breaker open")

// maxErrorBody bounds how much of an error response is read
const maxErrorBody = 1024

// apiErrorResponse is the error envelope of the collection server.
// Some servers only send message.
type apiErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// errorMessage extracts a readable message from an error body
func errorMessage(statusCode int, body []byte) string {
	var errResp apiErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.Message != "" {
			return errResp.Message
		}
		if errResp.Error != "" {
			return errResp.Error
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) < 200 && !strings.HasPrefix(text, "<") {
		return text
	}
	return http.StatusText(statusCode)
}

// wrapStatusError maps a non-2xx response to the typed post errors.
// This allows callers to use errors.Is() instead of matching status codes.
func wrapStatusError(op string, statusCode int, body []byte) error {
	msg := errorMessage(statusCode, body)

	switch statusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("%s: %w", op, posts.NewValidationError("", msg))
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w: %s", op, posts.ErrUnauthorized, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w: %s", op, posts.ErrNotFound, msg)
	default:
		return posts.NewTransportError(op, statusCode, errors.New(msg))
	}
}

// countsAsFailure reports whether err says something about the server's health.
// Client errors (4xx) do not open the circuit.
func countsAsFailure(err error) bool {
	var transportErr *posts.TransportError
	if !errors.As(err, &transportErr) {
		return false
	}
	return transportErr.StatusCode == 0 || transportErr.StatusCode >= 500 || transportErr.StatusCode == http.StatusTooManyRequests
}
