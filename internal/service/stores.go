package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/msc-org/msc-backend/internal/model"
)

// Store interfaces consumed by the services. The pgx repositories satisfy
// them in production; tests substitute in-memory fakes.

// StudentStore persists student accounts.
type StudentStore interface {
	Create(ctx context.Context, s *model.Student, syCode string) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Student, error)
	FindByUsername(ctx context.Context, username string) (*model.Student, error)
	FindByEmail(ctx context.Context, email string) (*model.Student, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) error
	ChangePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	ToggleActive(ctx context.Context, id uuid.UUID) (*model.Student, error)
	List(ctx context.Context, page, limit int, role model.Role) ([]model.Student, error)
	Search(ctx context.Context, query string, page, limit int) ([]model.Student, error)
	CountByRole(ctx context.Context, role model.Role) (int, error)
}

// EventStore persists events.
type EventStore interface {
	Create(ctx context.Context, e *model.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	List(ctx context.Context, page, limit int, f model.EventFilters) ([]model.Event, error)
	Update(ctx context.Context, id uuid.UUID, e *model.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListUpcoming(ctx context.Context, limit int) ([]model.Event, error)
	ListInRange(ctx context.Context, start, end string) ([]model.Event, error)
}

// RegistrationStore persists event registrations.
type RegistrationStore interface {
	Register(ctx context.Context, eventID, studentID uuid.UUID) (*model.Registration, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]model.RegistrationDetail, error)
	SetAttendance(ctx context.Context, eventID, studentID uuid.UUID, status model.AttendanceStatus) error
}

// TokenBlacklist records revoked session tokens.
type TokenBlacklist interface {
	Add(ctx context.Context, token string, expiresAt time.Time) error
	Contains(ctx context.Context, token string) (bool, error)
}
