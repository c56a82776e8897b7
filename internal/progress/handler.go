package progress

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/course-companion/backend/internal/api"
	"github.com/course-companion/backend/internal/apperr"
	"github.com/course-companion/backend/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CompleteChapter handles POST /chapters/{chapterID}/complete.
func (h *Handler) CompleteChapter(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		api.WriteUnauthorized(w, "Authentication required")
		return
	}

	chapterID, err := strconv.ParseInt(mux.Vars(r)["chapterID"], 10, 64)
	if err != nil {
		api.WriteError(w, apperr.Validation("chapterID must be an integer"))
		return
	}

	summary, err := h.service.CompleteChapter(r.Context(), userID, chapterID)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteData(w, http.StatusOK, summary)
}

// RecordActivity handles POST /activity.
func (h *Handler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		api.WriteUnauthorized(w, "Authentication required")
		return
	}

	summary, err := h.service.RecordActivity(r.Context(), userID)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteData(w, http.StatusOK, summary)
}

// GetProgress handles GET /progress.
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		api.WriteUnauthorized(w, "Authentication required")
		return
	}

	summary, err := h.service.Summarize(r.Context(), userID)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteData(w, http.StatusOK, summary)
}
