package search

import (
	"net/http"
	"strconv"

	"github.com/course-companion/backend/internal/api"
	"github.com/course-companion/backend/internal/apperr"
	"github.com/course-companion/backend/internal/middleware"
	"github.com/course-companion/backend/internal/models"
)

type Handler struct {
	index *Index
}

func NewHandler(index *Index) *Handler {
	return &Handler{index: index}
}

// Search handles GET /search?q=...&mode=...&limit=...
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserID(r.Context()); !ok {
		api.WriteUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	mode := models.SearchMode(query.Get("mode"))
	if mode == "" {
		mode = models.SearchHybrid
	}

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			api.WriteError(w, apperr.Validation("limit must be a positive integer"))
			return
		}
		limit = n
	}

	resp, err := h.index.Search(r.Context(), query.Get("q"), mode, limit)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteData(w, http.StatusOK, resp)
}
