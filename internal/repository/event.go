package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msc-org/msc-backend/internal/apperr"
	"github.com/msc-org/msc-backend/internal/model"
)

const eventColumns = `
	id, event_name, event_date::text, to_char(event_time_start, 'HH24:MI'),
	to_char(event_time_end, 'HH24:MI'), location, description, event_type,
	event_status, event_restriction, registration_required, created_at, updated_at`

// EventRepository handles persistence for events.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new event and returns it with a generated UUID.
func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	e.ID = uuid.New()
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := r.db.Exec(ctx,
		`INSERT INTO events (
			id, event_name, event_date, event_time_start, event_time_end,
			location, description, event_type, event_status, event_restriction,
			registration_required, created_at, updated_at
		) VALUES ($1, $2, $3::date, $4::time, $5::time, $6, $7, $8, $9, $10, $11, $12, $13)`,
		e.ID, e.Name, e.Date, e.TimeStart, e.TimeEnd, e.Location,
		e.Description, e.Type, e.Status, e.Restriction,
		e.RegistrationRequired, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return apperr.Wrap("insert event", err)
	}
	return nil
}

// FindByID returns a single event or a NotFound error.
func (r *EventRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var e model.Event
	err := r.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id,
	).Scan(
		&e.ID, &e.Name, &e.Date, &e.TimeStart, &e.TimeEnd, &e.Location,
		&e.Description, &e.Type, &e.Status, &e.Restriction,
		&e.RegistrationRequired, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("event not found")
		}
		return nil, apperr.Wrap("get event", err)
	}
	return &e, nil
}

// List returns a page of events, newest first, narrowed by the given filters.
func (r *EventRepository) List(ctx context.Context, page, limit int, f model.EventFilters) ([]model.Event, error) {
	offset := (page - 1) * limit

	query := `SELECT ` + eventColumns + ` FROM events`
	var (
		clauses []string
		args    []any
	)
	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}
	if f.Status != "" {
		add("event_status = $%d", f.Status)
	}
	if f.Type != "" {
		add("event_type = $%d", f.Type)
	}
	if f.Restriction != "" {
		add("event_restriction = $%d", f.Restriction)
	}
	if f.DateFrom != "" {
		add("event_date >= $%d::date", f.DateFrom)
	}
	if f.DateTo != "" {
		add("event_date <= $%d::date", f.DateTo)
	}
	for i, c := range clauses {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += fmt.Sprintf(" ORDER BY event_date DESC, created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Wrap("list events", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// Update replaces all mutable fields of an event.
func (r *EventRepository) Update(ctx context.Context, id uuid.UUID, e *model.Event) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE events SET
			event_name = $1, event_date = $2::date, event_time_start = $3::time,
			event_time_end = $4::time, location = $5, description = $6,
			event_type = $7, event_status = $8, event_restriction = $9,
			registration_required = $10, updated_at = now()
		 WHERE id = $11`,
		e.Name, e.Date, e.TimeStart, e.TimeEnd, e.Location, e.Description,
		e.Type, e.Status, e.Restriction, e.RegistrationRequired, id,
	)
	if err != nil {
		return apperr.Wrap("update event", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("event not found")
	}
	return nil
}

// Delete removes an event. Registrations cascade via the foreign key.
func (r *EventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return apperr.Wrap("delete event", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("event not found")
	}
	return nil
}

// ListUpcoming returns up to limit upcoming events, soonest first.
func (r *EventRepository) ListUpcoming(ctx context.Context, limit int) ([]model.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE event_status = 'upcoming' AND event_date >= CURRENT_DATE
		 ORDER BY event_date ASC, event_time_start ASC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, apperr.Wrap("list upcoming events", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListInRange returns events whose date falls within [start, end] inclusive.
func (r *EventRepository) ListInRange(ctx context.Context, start, end string) ([]model.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE event_date BETWEEN $1::date AND $2::date
		 ORDER BY event_date ASC, event_time_start ASC`,
		start, end,
	)
	if err != nil {
		return nil, apperr.Wrap("list events in range", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows pgx.Rows) ([]model.Event, error) {
	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Date, &e.TimeStart, &e.TimeEnd, &e.Location,
			&e.Description, &e.Type, &e.Status, &e.Restriction,
			&e.RegistrationRequired, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, apperr.Wrap("scan event", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap("iterate events", err)
	}
	return events, nil
}
