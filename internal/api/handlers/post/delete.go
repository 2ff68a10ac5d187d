package post

import "net/http"

// DeleteHandler handles post deletion requests
type DeleteHandler struct {
	service Service
}

// NewDeleteHandler creates a new delete handler
func NewDeleteHandler(service Service) *DeleteHandler {
	return &DeleteHandler{service: service}
}

// HandleDelete handles DELETE /posts/{id}
// The deleted post is echoed back with isDeleted and deletedOn.
func (h *DeleteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := postIDParam(w, r)
	if !ok {
		return
	}

	deleted, err := h.service.Delete(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, deleted)
}
