// Package session holds the logged-in user of the client and its access token.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"Postdeck/internal/core/posts"

	"github.com/golang-jwt/jwt/v5"
)

// Authenticator exchanges credentials for a user and access token
type Authenticator interface {
	Login(ctx context.Context, creds posts.Credentials) (*posts.AuthUser, error)
}

// ErrNoCredentials is returned by Login when username or password is empty
var ErrNoCredentials = errors.New("username and password are required")

// Session is the client-side auth state.
// It implements posts.Session for the list engine and postsapi.TokenSource for the HTTP client.
type Session struct {
	auth   Authenticator
	logger *slog.Logger
	now    func() time.Time
	user   *posts.AuthUser
	mu     sync.RWMutex
}

// New creates a logged-out session
func New(auth Authenticator, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		auth:   auth,
		logger: logger,
		now:    time.Now,
	}
}

// Login authenticates and stores the returned user. A failed login keeps the previous session.
func (s *Session) Login(ctx context.Context, creds posts.Credentials) (*posts.AuthUser, error) {
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		return nil, ErrNoCredentials
	}

	user, err := s.auth.Login(ctx, creds)
	if err != nil {
		s.logger.Warn("[SESSION] login failed", "username", creds.Username, "error", err)
		return nil, fmt.Errorf("login failed: %w", err)
	}

	stored := *user

	s.mu.Lock()
	s.user = &stored
	s.mu.Unlock()

	s.logger.Info("[SESSION] logged in", "username", stored.Username, "user_id", stored.ID)

	out := stored
	return &out, nil
}

// Logout forgets the user and token
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil {
		s.logger.Info("[SESSION] logged out", "user_id", s.user.ID)
	}
	s.user = nil
}

// User returns a copy of the logged-in user
func (s *Session) User() (posts.AuthUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return posts.AuthUser{}, false
	}
	return *s.user, true
}

// Token returns the access token, or "" when logged out
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.AccessToken
}

// UserID reports the logged-in user's id. A token whose exp claim has passed counts as logged out.
// Tokens that are not JWTs are treated as opaque and never expire locally.
func (s *Session) UserID() (int, bool) {
	s.mu.RLock()
	user := s.user
	s.mu.RUnlock()

	if user == nil || user.AccessToken == "" {
		return 0, false
	}
	if s.expired(user.AccessToken) {
		return 0, false
	}
	return user.ID, true
}

// expired checks the exp claim without verifying the signature; only the server can verify it
func (s *Session) expired(token string) bool {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	parsed, _, err := parser.ParseUnverified(token, &jwt.RegisteredClaims{})
	if err != nil {
		return false
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !s.now().Before(exp.Time)
}
