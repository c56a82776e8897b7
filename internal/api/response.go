// Package api holds the uniform JSON envelope used by every endpoint:
// {"status":"ok","data":...} on success, {"status":"error","error":{...}} on
// failure. No endpoint writes outside this envelope.
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/course-companion/backend/internal/apperr"
)

type envelope struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  *errorBody  `json:"error,omitempty"`
}

type errorBody struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Detail  map[string]interface{} `json:"detail,omitempty"`
}

func WriteData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, envelope{Status: "ok", Data: data})
}

// WriteError maps any error through the apperr taxonomy. Store failures are
// logged server-side and surfaced without internal detail.
func WriteError(w http.ResponseWriter, err error) {
	ae := apperr.From(err)
	if ae.Kind == apperr.KindStore {
		log.Printf("[api] store error: %v", ae)
		writeJSON(w, ae.Status(), envelope{Status: "error", Error: &errorBody{
			Code:    string(ae.Kind),
			Message: "A temporary storage problem occurred, please retry",
		}})
		return
	}
	writeJSON(w, ae.Status(), envelope{Status: "error", Error: &errorBody{
		Code:    string(ae.Kind),
		Message: ae.Message,
		Detail:  ae.Detail,
	}})
}

// WriteUnauthorized is used by the auth middleware, which sits below the
// apperr taxonomy (token issuance is an external collaborator).
func WriteUnauthorized(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusUnauthorized, envelope{Status: "error", Error: &errorBody{
		Code:    "unauthorized",
		Message: msg,
	}})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
