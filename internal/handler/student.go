package handler

import (
	"net/http"

	"github.com/msc-org/msc-backend/internal/apperr"
	"github.com/msc-org/msc-backend/internal/model"
	"github.com/msc-org/msc-backend/internal/service"
)

// StudentHandler holds the /students endpoints.
type StudentHandler struct {
	svc *service.StudentService
}

// NewStudentHandler constructs a StudentHandler.
func NewStudentHandler(svc *service.StudentService) *StudentHandler {
	return &StudentHandler{svc: svc}
}

// studentsResponse wraps a page of students.
type studentsResponse struct {
	Students   []model.Student  `json:"students"`
	Pagination model.Pagination `json:"pagination"`
}

// List handles GET /students (officer only).
func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	students, page, err := h.svc.List(r.Context(),
		queryInt(r, "page", 1), queryInt(r, "limit", 20), r.URL.Query().Get("role"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", studentsResponse{Students: students, Pagination: page})
}

// Get handles GET /students/{id}. Members may only read their own record;
// officers may read any.
func (h *StudentHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	if claims.Role != model.RoleOfficer && claims.UserID != id {
		writeError(w, apperr.Forbidden("insufficient privileges"))
		return
	}

	student, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", student)
}

// UpdateProfile handles PUT /students/{id}/profile. Members may only update
// their own profile; officers may update any.
func (h *StudentHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
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
	if claims.Role != model.RoleOfficer && claims.UserID != id {
		writeError(w, apperr.Forbidden("insufficient privileges"))
		return
	}

	var req model.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	student, err := h.svc.UpdateProfile(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "profile updated successfully", student)
}

// ToggleActive handles PUT /students/{id}/toggle-active (officer only).
func (h *StudentHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	student, err := h.svc.ToggleActive(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	message := "student account deactivated successfully"
	if student.IsActive {
		message = "student account activated successfully"
	}
	writeSuccess(w, http.StatusOK, message, student)
}

// Dashboard handles GET /students/dashboard for the authenticated caller.
func (h *StudentHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, apperr.Auth("not authenticated"))
		return
	}

	data, err := h.svc.Dashboard(r.Context(), claims.UserID, claims.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", data)
}

// Search handles GET /students/search (officer only).
func (h *StudentHandler) Search(w http.ResponseWriter, r *http.Request) {
	students, page, err := h.svc.Search(r.Context(),
		r.URL.Query().Get("q"), queryInt(r, "page", 1), queryInt(r, "limit", 20))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", studentsResponse{Students: students, Pagination: page})
}
