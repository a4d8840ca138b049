package handler

import (
	"net/http"

	"github.com/msc-org/msc-backend/internal/apperr"
	"github.com/msc-org/msc-backend/internal/model"
	"github.com/msc-org/msc-backend/internal/service"
)

// AuthHandler holds the /auth endpoints.
type AuthHandler struct {
	svc *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	student, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "registration successful", student)
}

// loginResponse pairs the account with its session token.
type loginResponse struct {
	User  *model.Student `json:"user"`
	Token string         `json:"token"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	student, token, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "login successful", loginResponse{User: student, Token: token})
}

// Logout handles POST /auth/logout. It revokes the presented token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := tokenFrom(r.Context())
	if token == "" {
		writeError(w, apperr.Auth("not authenticated"))
		return
	}
	if err := h.svc.Logout(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "logout successful", nil)
}

// Profile handles GET /auth/profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, apperr.Auth("not authenticated"))
		return
	}

	student, err := h.svc.Profile(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", student)
}

// ChangePassword handles PUT /auth/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, apperr.Auth("not authenticated"))
		return
	}

	var req model.ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	if err := h.svc.ChangePassword(r.Context(), claims.UserID, req); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "password changed successfully", nil)
}

// ForgotPassword handles POST /auth/forgot-password. The response never
// reveals whether the email exists.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req model.ForgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err)
		return
	}

	if err := h.svc.ForgotPassword(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "if the email exists, a reset link has been sent", nil)
}
