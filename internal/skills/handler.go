package skills

import (
	"encoding/json"
	"net/http"

	"github.com/course-companion/backend/internal/api"
	"github.com/course-companion/backend/internal/apperr"
	"github.com/course-companion/backend/internal/middleware"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

type calculateRequest struct {
	Expression string `json:"expression"`
}

type calculateResponse struct {
	Expression string  `json:"expression"`
	Result     float64 `json:"result"`
}

// ListSkills handles GET /skills.
func (h *Handler) ListSkills(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserID(r.Context()); !ok {
		api.WriteUnauthorized(w, "Authentication required")
		return
	}
	api.WriteData(w, http.StatusOK, Registry())
}

// Calculate handles POST /skills/calculate.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserID(r.Context()); !ok {
		api.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, apperr.Validation("Invalid request body"))
		return
	}

	result, err := Calculate(req.Expression)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteData(w, http.StatusOK, calculateResponse{
		Expression: req.Expression,
		Result:     result,
	})
}
