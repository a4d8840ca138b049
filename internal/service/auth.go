package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/msc-org/msc-backend/internal/apperr"
	"github.com/msc-org/msc-backend/internal/auth"
	"github.com/msc-org/msc-backend/internal/model"
)

// AuthService handles registration, login and session lifecycle.
type AuthService struct {
	students  StudentStore
	blacklist TokenBlacklist
	tokens    *auth.TokenManager
	syCode    string
}

// NewAuthService constructs an AuthService. syCode is the school-year code
// that scopes officer membership IDs.
func NewAuthService(students StudentStore, blacklist TokenBlacklist, tokens *auth.TokenManager, syCode string) *AuthService {
	return &AuthService{students: students, blacklist: blacklist, tokens: tokens, syCode: syCode}
}

// Register validates the payload and creates a new account. Role defaults to
// member; new accounts are active and receive a membership ID.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.Student, error) {
	fields := validateStruct(req)
	if req.Birthdate != "" && !checkDate(req.Birthdate) {
		fields["birthdate"] = "invalid date format, use YYYY-MM-DD"
	}
	if req.Gender != "" && !checkEnum(req.Gender, model.Genders) {
		fields["gender"] = "invalid gender value"
	}
	if req.Phone != "" && !checkPhone(req.Phone) {
		fields["phone"] = "invalid phone number format"
	}
	role := model.RoleMember
	if req.Role != "" {
		role = model.Role(req.Role)
		if !role.Valid() {
			fields["role"] = "invalid role value"
		}
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Wrap("hash password", err)
	}

	student := &model.Student{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		FirstName:    req.FirstName,
		MiddleName:   req.MiddleName,
		LastName:     req.LastName,
		NameSuffix:   req.NameSuffix,
		Birthdate:    req.Birthdate,
		Gender:       req.Gender,
		StudentNo:    req.StudentNo,
		YearLevel:    req.YearLevel,
		College:      req.College,
		Program:      req.Program,
		Section:      req.Section,
		Address:      req.Address,
		Phone:        req.Phone,
		FacebookLink: req.FacebookLink,
		Role:         role,
		IsActive:     true,
	}
	if err := s.students.Create(ctx, student, s.syCode); err != nil {
		return nil, err
	}
	return student, nil
}

// Login authenticates by username or email. Wrong credentials are a 401;
// a deactivated account with correct credentials is a 403.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.Student, string, error) {
	if fields := validateStruct(req); len(fields) > 0 {
		return nil, "", apperr.Validation(fields)
	}

	student, err := s.students.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if apperr.KindOf(err) != apperr.KindNotFound {
			return nil, "", err
		}
		student, err = s.students.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Username)))
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				return nil, "", apperr.Auth("invalid username/email or password")
			}
			return nil, "", err
		}
	}

	if !auth.VerifyPassword(student.PasswordHash, req.Password) {
		return nil, "", apperr.Auth("invalid username/email or password")
	}
	if !student.IsActive {
		return nil, "", apperr.Forbidden("account is deactivated, please contact an administrator")
	}

	token, _, err := s.tokens.Generate(student.ID, student.Role)
	if err != nil {
		return nil, "", apperr.Wrap("issue token", err)
	}
	return student, token, nil
}

// Logout revokes the presented token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return err
	}
	return s.blacklist.Add(ctx, token, claims.ExpiresAt.Time)
}

// Profile returns the account for the authenticated caller.
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*model.Student, error) {
	return s.students.FindByID(ctx, userID)
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req model.ChangePasswordRequest) error {
	if fields := validateStruct(req); len(fields) > 0 {
		return apperr.Validation(fields)
	}

	student, err := s.students.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(student.PasswordHash, req.CurrentPassword) {
		return apperr.Validation(map[string]string{"current_password": "current password is incorrect"})
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperr.Wrap("hash password", err)
	}
	return s.students.ChangePassword(ctx, userID, hash)
}

// ForgotPassword accepts a reset request without revealing whether the email
// exists. Token generation and mail delivery are out of scope; the lookup
// result is deliberately discarded.
func (s *AuthService) ForgotPassword(ctx context.Context, req model.ForgotPasswordRequest) error {
	if fields := validateStruct(req); len(fields) > 0 {
		return apperr.Validation(fields)
	}
	if _, err := s.students.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email))); err != nil {
		if apperr.KindOf(err) != apperr.KindNotFound {
			return err
		}
	}
	return nil
}
