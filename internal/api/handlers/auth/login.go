package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"Postdeck/internal/core/collection"
	"Postdeck/internal/core/posts"
)

// maxLoginBodyBytes bounds login request bodies
const maxLoginBodyBytes = 4 * 1024

// Authenticator exchanges credentials for a profile and access token
type Authenticator interface {
	Login(ctx context.Context, creds posts.Credentials) (*posts.AuthUser, error)
}

// LoginHandler handles password logins
type LoginHandler struct {
	auth Authenticator
}

// NewLoginHandler creates a new login handler
func NewLoginHandler(auth Authenticator) *LoginHandler {
	return &LoginHandler{auth: auth}
}

// HandleLogin handles POST /auth/login
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxLoginBodyBytes)

	var creds posts.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "username and password are required")
		return
	}

	user, err := h.auth.Login(r.Context(), creds)
	if err != nil {
		if errors.Is(err, collection.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "InvalidCredentials", "Invalid username or password")
			return
		}
		slog.Error("login failed", "username", creds.Username, "error", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(user); err != nil {
		slog.Error("failed to encode login response", "error", err)
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(errorResponse{Error: errorType, Message: message}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
