package entitlement

import (
	"net/http"
	"strconv"

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

// CheckAccess answers "could this user open this resource" as data: the
// decision itself is the payload, so a denial is still a 200 here. Mutation
// flows use RequireAccess and surface denials as 403 instead.
func (h *Handler) CheckAccess(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		api.WriteUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	resourceType := models.ResourceType(query.Get("resource_type"))
	if !models.ValidResourceTypes[resourceType] {
		api.WriteError(w, apperr.Validation("resource_type must be one of: chapter, quiz, course, feature"))
		return
	}

	var resourceID *int64
	if raw := query.Get("resource_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			api.WriteError(w, apperr.Validation("resource_id must be an integer"))
			return
		}
		resourceID = &id
	}

	decision, err := h.service.CheckAccess(r.Context(), userID, resourceType, resourceID)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	api.WriteData(w, http.StatusOK, decision)
}
