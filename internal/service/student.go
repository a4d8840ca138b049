package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/msc-org/msc-backend/internal/apperr"
	"github.com/msc-org/msc-backend/internal/model"
)

// StudentService handles member-directory operations.
type StudentService struct {
	students StudentStore
}

// NewStudentService constructs a StudentService.
func NewStudentService(students StudentStore) *StudentService {
	return &StudentService{students: students}
}

// List returns a page of students, optionally filtered by role.
func (s *StudentService) List(ctx context.Context, page, limit int, role string) ([]model.Student, model.Pagination, error) {
	if role != "" && !model.Role(role).Valid() {
		return nil, model.Pagination{}, apperr.Validation(map[string]string{"role": "invalid role value"})
	}
	page, limit = pageWindow(page, limit)

	students, err := s.students.List(ctx, page, limit, model.Role(role))
	if err != nil {
		return nil, model.Pagination{}, err
	}
	if students == nil {
		students = []model.Student{}
	}
	return students, model.Pagination{Page: page, Limit: limit}, nil
}

// Get returns a single student.
func (s *StudentService) Get(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	return s.students.FindByID(ctx, id)
}

// UpdateProfile validates and applies a profile update, returning the
// refreshed record.
func (s *StudentService) UpdateProfile(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) (*model.Student, error) {
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
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	if err := s.students.UpdateProfile(ctx, id, req); err != nil {
		return nil, err
	}
	return s.students.FindByID(ctx, id)
}

// ToggleActive flips the active flag and returns the updated student.
func (s *StudentService) ToggleActive(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	return s.students.ToggleActive(ctx, id)
}

// OfficerDashboard summarises membership totals.
type OfficerDashboard struct {
	TotalMembers  int    `json:"total_members"`
	TotalOfficers int    `json:"total_officers"`
	TotalStudents int    `json:"total_students"`
	UserRole      string `json:"user_role"`
}

// MemberDashboard shows a member their own profile.
type MemberDashboard struct {
	Profile  *model.Student `json:"profile"`
	UserRole string         `json:"user_role"`
}

// Dashboard returns role-appropriate dashboard data for the caller.
func (s *StudentService) Dashboard(ctx context.Context, userID uuid.UUID, role model.Role) (any, error) {
	if role == model.RoleOfficer {
		members, err := s.students.CountByRole(ctx, model.RoleMember)
		if err != nil {
			return nil, err
		}
		officers, err := s.students.CountByRole(ctx, model.RoleOfficer)
		if err != nil {
			return nil, err
		}
		return OfficerDashboard{
			TotalMembers:  members,
			TotalOfficers: officers,
			TotalStudents: members + officers,
			UserRole:      string(model.RoleOfficer),
		}, nil
	}

	profile, err := s.students.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return MemberDashboard{Profile: profile, UserRole: string(model.RoleMember)}, nil
}

// Search returns students matching the query across name, username, email
// and membership ID.
func (s *StudentService) Search(ctx context.Context, query string, page, limit int) ([]model.Student, model.Pagination, error) {
	if query == "" {
		return nil, model.Pagination{}, apperr.Validation(map[string]string{"q": "search query is required"})
	}
	page, limit = pageWindow(page, limit)

	students, err := s.students.Search(ctx, query, page, limit)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	if students == nil {
		students = []model.Student{}
	}
	return students, model.Pagination{Page: page, Limit: limit}, nil
}
