package post

import (
	"net/http"
	"strconv"
	"strings"
)

// ListHandler serves browse pages and search results
type ListHandler struct {
	service Service
}

// NewListHandler creates a new list handler
func NewListHandler(service Service) *ListHandler {
	return &ListHandler{service: service}
}

// HandleList handles GET /posts?limit=&skip=
func (h *ListHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, ok := intQuery(w, r, "limit")
	if !ok {
		return
	}
	skip, ok := intQuery(w, r, "skip")
	if !ok {
		return
	}

	page, err := h.service.List(r.Context(), limit, skip)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, page)
}

// HandleSearch handles GET /posts/search?q=
// All matches are returned in one page.
func (h *ListHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "q is required")
		return
	}

	page, err := h.service.Search(r.Context(), query)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, page)
}

// intQuery parses an optional non-negative integer query parameter. Absent means 0.
func intQuery(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeError(w, http.StatusBadRequest, "InvalidRequest", name+" must be a non-negative integer")
		return 0, false
	}
	return n, true
}
