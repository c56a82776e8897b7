package quizzes

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/course-companion/backend/internal/api"
	"github.com/course-companion/backend/internal/apperr"
	"github.com/course-companion/backend/internal/middleware"
	"github.com/course-companion/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// SubmitAttempt handles POST /quizzes/{quizID}/attempts.
func (h *Handler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		api.WriteUnauthorized(w, "Authentication required")
		return
	}

	quizID, err := strconv.ParseInt(mux.Vars(r)["quizID"], 10, 64)
	if err != nil {
		api.WriteError(w, apperr.Validation("quizID must be an integer"))
		return
	}

	var req models.SubmitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, apperr.Validation("Invalid request body"))
		return
	}

	resp, err := h.service.SubmitAttempt(r.Context(), userID, quizID, req)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteData(w, http.StatusCreated, resp)
}

// SubmitAnswer handles POST /quizzes/{quizID}/questions/{questionID}/answer.
func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		api.WriteUnauthorized(w, "Authentication required")
		return
	}

	vars := mux.Vars(r)
	quizID, err := strconv.ParseInt(vars["quizID"], 10, 64)
	if err != nil {
		api.WriteError(w, apperr.Validation("quizID must be an integer"))
		return
	}
	questionID, err := strconv.ParseInt(vars["questionID"], 10, 64)
	if err != nil {
		api.WriteError(w, apperr.Validation("questionID must be an integer"))
		return
	}

	var req models.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, apperr.Validation("Invalid request body"))
		return
	}

	resp, err := h.service.SubmitAnswer(r.Context(), userID, quizID, questionID, req)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteData(w, http.StatusOK, resp)
}
