package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msc-org/msc-backend/internal/apperr"
	"github.com/msc-org/msc-backend/internal/model"
)

// RegistrationRepository handles persistence for event registrations.
type RegistrationRepository struct {
	db *pgxpool.Pool
}

// NewRegistrationRepository constructs a RegistrationRepository.
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Register records a student's registration for an event inside a serialised
// transaction. The event row is locked with SELECT ... FOR UPDATE so
// concurrent attempts for the same event are processed one at a time; the
// duplicate check and the insert therefore cannot interleave, and the
// (event_id, student_id) unique index backstops the whole sequence.
func (r *RegistrationRepository) Register(ctx context.Context, eventID, studentID uuid.UUID) (*model.Registration, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, apperr.Wrap("begin transaction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var lockedID uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT id FROM events WHERE id = $1 FOR UPDATE`,
		eventID,
	).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = apperr.NotFound("event not found")
			return nil, err
		}
		return nil, apperr.Wrap("lock event row", err)
	}

	var registered bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM event_registrations WHERE event_id = $1 AND student_id = $2)`,
		eventID, studentID,
	).Scan(&registered)
	if err != nil {
		return nil, apperr.Wrap("check duplicate registration", err)
	}
	if registered {
		err = apperr.Conflict("already registered for this event")
		return nil, err
	}

	reg := &model.Registration{
		ID:               uuid.New(),
		EventID:          eventID,
		StudentID:        studentID,
		AttendanceStatus: model.AttendanceRegistered,
		CreatedAt:        time.Now().UTC(),
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO event_registrations (id, event_id, student_id, attendance_status, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		reg.ID, reg.EventID, reg.StudentID, reg.AttendanceStatus, reg.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			err = apperr.Conflict("already registered for this event")
			return nil, err
		}
		return nil, apperr.Wrap("insert registration", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, apperr.Wrap("commit transaction", err)
	}
	return reg, nil
}

// ListByEvent returns all registrations for an event joined with the
// registrant's identity, in registration order.
func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]model.RegistrationDetail, error) {
	rows, err := r.db.Query(ctx,
		`SELECT er.id, er.event_id, er.student_id, er.attendance_status, er.created_at,
		        s.username, s.first_name, s.last_name, COALESCE(s.msc_id, '')
		 FROM event_registrations er
		 JOIN students s ON s.id = er.student_id
		 WHERE er.event_id = $1
		 ORDER BY er.created_at ASC`,
		eventID,
	)
	if err != nil {
		return nil, apperr.Wrap("list registrations", err)
	}
	defer rows.Close()

	var regs []model.RegistrationDetail
	for rows.Next() {
		var d model.RegistrationDetail
		if err := rows.Scan(
			&d.ID, &d.EventID, &d.StudentID, &d.AttendanceStatus, &d.CreatedAt,
			&d.Username, &d.FirstName, &d.LastName, &d.MSCID,
		); err != nil {
			return nil, apperr.Wrap("scan registration", err)
		}
		regs = append(regs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap("iterate registrations", err)
	}
	return regs, nil
}

// SetAttendance updates the attendance status of an existing registration.
// It fails with NotFound when no registration exists for the pair.
func (r *RegistrationRepository) SetAttendance(ctx context.Context, eventID, studentID uuid.UUID, status model.AttendanceStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE event_registrations SET attendance_status = $1
		 WHERE event_id = $2 AND student_id = $3`,
		status, eventID, studentID,
	)
	if err != nil {
		return apperr.Wrap("update attendance", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("registration not found")
	}
	return nil
}

// FindByPair returns the registration for an (event, student) pair.
func (r *RegistrationRepository) FindByPair(ctx context.Context, eventID, studentID uuid.UUID) (*model.Registration, error) {
	var reg model.Registration
	err := r.db.QueryRow(ctx,
		`SELECT id, event_id, student_id, attendance_status, created_at
		 FROM event_registrations
		 WHERE event_id = $1 AND student_id = $2`,
		eventID, studentID,
	).Scan(&reg.ID, &reg.EventID, &reg.StudentID, &reg.AttendanceStatus, &reg.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("registration not found")
		}
		return nil, apperr.Wrap("get registration", err)
	}
	return &reg, nil
}
