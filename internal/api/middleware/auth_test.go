package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeVerifier accepts exactly one token
type fakeVerifier struct {
	token  string
	userID int
}

func (f fakeVerifier) Verify(token string) (int, error) {
	if token != f.token {
		return 0, errors.New("bad token")
	}
	return f.userID, nil
}

func TestRequireAuth_ValidToken(t *testing.T) {
	m := NewBearerAuthMiddleware(fakeVerifier{token: "good", userID: 7}, nil)

	handlerCalled := false
	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true

		if id := GetUserID(r); id != 7 {
			t.Errorf("expected user id 7, got %d", id)
		}
		if token := GetUserAccessToken(r); token != "good" {
			t.Errorf("expected token 'good', got %q", token)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/posts/add", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !handlerCalled {
		t.Error("handler was not called")
	}
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestRequireAuth_Rejections(t *testing.T) {
	m := NewBearerAuthMiddleware(fakeVerifier{token: "good", userID: 7}, nil)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic Z29vZA=="},
		{name: "bad token", header: "Bearer forged"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler should not be called")
			}))

			req := httptest.NewRequest(http.MethodDelete, "/posts/1", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected status 401, got %d", w.Code)
			}

			var body errorResponse
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode error body: %v", err)
			}
			if body.Error != "AuthenticationRequired" {
				t.Errorf("expected error 'AuthenticationRequired', got %q", body.Error)
			}
		})
	}
}

func TestGetUserID_Unauthenticated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	if id := GetUserID(req); id != 0 {
		t.Errorf("expected 0, got %d", id)
	}

	req = req.WithContext(SetTestUserID(req.Context(), 3))
	if id := GetUserID(req); id != 3 {
		t.Errorf("expected 3, got %d", id)
	}
}
