// Package handler contains the chi HTTP handlers and middleware that
// translate requests and responses to and from the service layer.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/msc-org/msc-backend/internal/apperr"
)

// envelope is the JSON body wrapping every response.
type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeSuccess emits the success envelope.
func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

// writeError maps an error's Kind to an HTTP status and emits the failure
// envelope. Unclassified errors become opaque 500s.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		writeJSON(w, http.StatusUnprocessableEntity, envelope{
			Success: false,
			Message: "validation failed",
			Errors:  apperr.FieldsOf(err),
		})
		return
	case apperr.KindAuth:
		status, message = http.StatusUnauthorized, err.Error()
	case apperr.KindForbidden:
		status, message = http.StatusForbidden, err.Error()
	case apperr.KindNotFound:
		status, message = http.StatusNotFound, err.Error()
	case apperr.KindConflict:
		status, message = http.StatusConflict, err.Error()
	}

	writeJSON(w, status, envelope{Success: false, Message: message})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// badRequest reports an undecodable body.
func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid request body: " + err.Error()})
}
