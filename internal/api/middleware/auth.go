package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// Context keys for storing user information
type contextKey string

const (
	UserIDKey       contextKey = "user_id"
	UserAccessToken contextKey = "user_access_token"
)

// TokenVerifier checks an access token and returns the user id it was issued to
type TokenVerifier interface {
	Verify(token string) (int, error)
}

// BearerAuthMiddleware enforces Bearer token authentication for protected routes
type BearerAuthMiddleware struct {
	verifier TokenVerifier
	logger   *slog.Logger
}

// NewBearerAuthMiddleware creates a new auth middleware. logger may be nil.
func NewBearerAuthMiddleware(verifier TokenVerifier, logger *slog.Logger) *BearerAuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &BearerAuthMiddleware{verifier: verifier, logger: logger}
}

// RequireAuth middleware ensures the request carries a valid access token.
// If not, it returns 401. Otherwise the user id and token are injected into the context.
func (m *BearerAuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeAuthError(w, "Missing Authorization header")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeAuthError(w, "Invalid Authorization header format. Expected: Bearer <token>")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		userID, err := m.verifier.Verify(token)
		if err != nil {
			m.logger.Warn("[AUTH] token rejected",
				"ip", getClientIP(r),
				"method", r.Method,
				"path", r.URL.Path,
				"error", err)
			writeAuthError(w, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		ctx = context.WithValue(ctx, UserAccessToken, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the authenticated user id from the request context.
// Returns 0 if not authenticated.
func GetUserID(r *http.Request) int {
	id, _ := r.Context().Value(UserIDKey).(int)
	return id
}

// SetTestUserID sets the user id in the context for testing purposes
// This function should ONLY be used in tests to mock authenticated users
func SetTestUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserAccessToken extracts the user's access token from the request context
// Returns empty string if not authenticated
func GetUserAccessToken(r *http.Request) string {
	token, _ := r.Context().Value(UserAccessToken).(string)
	return token
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeJSONError writes the {error,message} envelope
func writeJSONError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorResponse{Error: errorType, Message: message}); err != nil {
		slog.Error("failed to write error response", "error", err)
	}
}

// writeAuthError writes a JSON error response for authentication failures
func writeAuthError(w http.ResponseWriter, message string) {
	writeJSONError(w, http.StatusUnauthorized, "AuthenticationRequired", message)
}
