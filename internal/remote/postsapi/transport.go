package postsapi

import (
	"net/http"

	"github.com/google/uuid"
)

// TokenSource supplies the current access token. An empty token means "not logged in".
type TokenSource interface {
	Token() string
}

// BearerTransport is an http.RoundTripper that adds Authorization: Bearer <token>
// when the token source has a token, and tags every request with an X-Request-ID.
type BearerTransport struct {
	base   http.RoundTripper // Underlying transport (usually http.DefaultTransport)
	tokens TokenSource
}

// NewBearerTransport wraps base. tokens may be nil for anonymous clients.
func NewBearerTransport(base http.RoundTripper, tokens TokenSource) *BearerTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &BearerTransport{base: base, tokens: tokens}
}

// RoundTrip implements http.RoundTripper
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request (don't modify original)
	req = req.Clone(req.Context())

	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}

	if t.tokens != nil {
		if token := t.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return t.base.RoundTrip(req)
}
