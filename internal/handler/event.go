package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/msc-org/msc-backend/internal/apperr"
	"github.com/msc-org/msc-backend/internal/model"
	"github.com/msc-org/msc-backend/internal/service"
)

// EventHandler holds the /events endpoints.
type EventHandler struct {
	svc *service.EventService
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

func urlUUID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, apperr.Validation(map[string]string{param: "invalid identifier"})
	}
	return id, nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// Create handles POST /events (officer only).
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.EventRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	event, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "event created successfully", event)
}

// listResponse wraps a page of events with the applied window and filters.
type listResponse struct {
	Events     []model.Event    `json:"events"`
	Pagination model.Pagination `json:"pagination"`
}

// List handles GET /events.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := model.EventFilters{
		Status:      q.Get("status"),
		Type:        q.Get("type"),
		Restriction: q.Get("restriction"),
		DateFrom:    q.Get("date_from"),
		DateTo:      q.Get("date_to"),
	}

	events, page, err := h.svc.List(r.Context(), queryInt(r, "page", 1), queryInt(r, "limit", 20), filters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", listResponse{Events: events, Pagination: page})
}

// Get handles GET /events/{id}.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	event, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", event)
}

// Update handles PUT /events/{id} (officer only).
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req model.EventRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	event, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "event updated successfully", event)
}

// Delete handles DELETE /events/{id} (officer only).
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "event deleted successfully", nil)
}

// Upcoming handles GET /events/upcoming.
func (h *EventHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.Upcoming(r.Context(), queryInt(r, "limit", 10))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", events)
}

// Calendar handles GET /events/calendar?start=...&end=...
func (h *EventHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.Calendar(r.Context(), r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", events)
}

// Register handles POST /events/{id}/register for the authenticated caller.
func (h *EventHandler) Register(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, apperr.Auth("not authenticated"))
		return
	}

	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	reg, err := h.svc.Register(r.Context(), id, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "successfully registered for event", reg)
}

// Registrations handles GET /events/{id}/registrations (officer only).
func (h *EventHandler) Registrations(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	sheet, err := h.svc.Registrations(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", sheet)
}

// Attendance handles PUT /events/{id}/attendance/{studentID} (officer only).
func (h *EventHandler) Attendance(w http.ResponseWriter, r *http.Request) {
	eventID, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	studentID, err := urlUUID(r, "studentID")
	if err != nil {
		writeError(w, err)
		return
	}

	var req model.AttendanceRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	if err := h.svc.SetAttendance(r.Context(), eventID, studentID, req); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "attendance status updated successfully", nil)
}
