package post

import (
	"net/http"

	"Postdeck/internal/core/posts"
)

// UpdateHandler handles partial post updates
type UpdateHandler struct {
	service Service
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(service Service) *UpdateHandler {
	return &UpdateHandler{service: service}
}

// HandleUpdate handles PUT and PATCH /posts/{id}
// Only the fields present in the body are changed; the full merged post is returned.
func (h *UpdateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := postIDParam(w, r)
	if !ok {
		return
	}

	var req posts.UpdatePostInput
	if !decodeBody(w, r, &req) {
		return
	}

	updated, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, updated)
}
