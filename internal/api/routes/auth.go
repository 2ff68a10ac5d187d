package routes

import (
	"time"

	"Postdeck/internal/api/handlers/auth"
	"Postdeck/internal/api/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAuthRoutes registers the login endpoint with its own, stricter rate limit.
// The returned limiter must be stopped on shutdown.
func RegisterAuthRoutes(r chi.Router, authenticator auth.Authenticator) *middleware.RateLimiter {
	// 10 login attempts per minute per IP
	loginLimiter := middleware.NewRateLimiter(10, 1*time.Minute)

	handler := auth.NewLoginHandler(authenticator)
	r.With(loginLimiter.Middleware).Post("/auth/login", handler.HandleLogin)

	return loginLimiter
}
