package post

import (
	"net/http"

	"Postdeck/internal/api/middleware"
	"Postdeck/internal/core/posts"
)

// CreateHandler handles post creation requests
type CreateHandler struct {
	service Service
}

// NewCreateHandler creates a new create handler
func NewCreateHandler(service Service) *CreateHandler {
	return &CreateHandler{service: service}
}

// HandleCreate handles POST /posts/add
func (h *CreateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	// 1. Extract authenticated user from request context (injected by auth middleware)
	userID := middleware.GetUserID(r)
	if userID == 0 {
		writeError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	// 2. Parse request body
	var req posts.CreatePostInput
	if !decodeBody(w, r, &req) {
		return
	}

	// 3. Posts are authored by the token holder. A body claiming someone else is rejected.
	if req.UserID != 0 && req.UserID != userID {
		writeError(w, http.StatusForbidden, "NotAuthorized",
			"userId must match the authenticated user")
		return
	}
	req.UserID = userID

	created, err := h.service.Create(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, created)
}
