package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"Postdeck/internal/core/posts"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthenticator struct {
	loginFunc func(ctx context.Context, creds posts.Credentials) (*posts.AuthUser, error)
	calls     int
}

func (f *fakeAuthenticator) Login(ctx context.Context, creds posts.Credentials) (*posts.AuthUser, error) {
	f.calls++
	return f.loginFunc(ctx, creds)
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestSession_LoginLogout(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	auth := &fakeAuthenticator{loginFunc: func(ctx context.Context, creds posts.Credentials) (*posts.AuthUser, error) {
		return &posts.AuthUser{ID: 1, Username: creds.Username, AccessToken: token}, nil
	}}

	s := New(auth, nil)

	_, ok := s.UserID()
	assert.False(t, ok)
	assert.Empty(t, s.Token())

	user, err := s.Login(context.Background(), posts.Credentials{Username: "emilys", Password: "emilyspass"})
	require.NoError(t, err)
	assert.Equal(t, "emilys", user.Username)

	id, ok := s.UserID()
	assert.True(t, ok)
	assert.Equal(t, 1, id)
	assert.Equal(t, token, s.Token())

	stored, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, "emilys", stored.Username)

	s.Logout()
	_, ok = s.UserID()
	assert.False(t, ok)
	assert.Empty(t, s.Token())
}

func TestSession_FailedLoginKeepsSession(t *testing.T) {
	fail := false
	auth := &fakeAuthenticator{loginFunc: func(ctx context.Context, creds posts.Credentials) (*posts.AuthUser, error) {
		if fail {
			return nil, posts.ErrUnauthorized
		}
		return &posts.AuthUser{ID: 7, AccessToken: "opaque"}, nil
	}}

	s := New(auth, nil)
	_, err := s.Login(context.Background(), posts.Credentials{Username: "a", Password: "b"})
	require.NoError(t, err)

	fail = true
	_, err = s.Login(context.Background(), posts.Credentials{Username: "a", Password: "wrong"})
	assert.True(t, errors.Is(err, posts.ErrUnauthorized))

	id, ok := s.UserID()
	assert.True(t, ok)
	assert.Equal(t, 7, id)
}

func TestSession_RequiresCredentials(t *testing.T) {
	auth := &fakeAuthenticator{}
	s := New(auth, nil)

	_, err := s.Login(context.Background(), posts.Credentials{Username: "  ", Password: "x"})
	assert.ErrorIs(t, err, ErrNoCredentials)
	_, err = s.Login(context.Background(), posts.Credentials{Username: "x"})
	assert.ErrorIs(t, err, ErrNoCredentials)
	assert.Zero(t, auth.calls)
}

func TestSession_ExpiredToken(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	token := signedToken(t, now.Add(time.Minute))
	auth := &fakeAuthenticator{loginFunc: func(ctx context.Context, creds posts.Credentials) (*posts.AuthUser, error) {
		return &posts.AuthUser{ID: 1, AccessToken: token}, nil
	}}

	s := New(auth, nil)
	s.now = func() time.Time { return now }

	_, err := s.Login(context.Background(), posts.Credentials{Username: "a", Password: "b"})
	require.NoError(t, err)

	_, ok := s.UserID()
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = s.UserID()
	assert.False(t, ok, "an expired token is no session")

	// The token is still handed out; the server decides what to do with it
	assert.Equal(t, token, s.Token())
}

func TestSession_OpaqueTokenNeverExpires(t *testing.T) {
	auth := &fakeAuthenticator{loginFunc: func(ctx context.Context, creds posts.Credentials) (*posts.AuthUser, error) {
		return &posts.AuthUser{ID: 3, AccessToken: "not-a-jwt"}, nil
	}}

	s := New(auth, nil)
	_, err := s.Login(context.Background(), posts.Credentials{Username: "a", Password: "b"})
	require.NoError(t, err)

	id, ok := s.UserID()
	assert.True(t, ok)
	assert.Equal(t, 3, id)
}
