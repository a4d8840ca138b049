package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/msc-org/msc-backend/internal/apperr"
	"github.com/msc-org/msc-backend/internal/model"
)

// EventService orchestrates event lifecycle, registration and attendance.
type EventService struct {
	events        EventStore
	registrations RegistrationStore
}

// NewEventService constructs an EventService.
func NewEventService(events EventStore, registrations RegistrationStore) *EventService {
	return &EventService{events: events, registrations: registrations}
}

// validateEventRequest checks the shared create/update payload and fills in
// enum defaults (onsite, upcoming, public).
func validateEventRequest(req *model.EventRequest) map[string]string {
	fields := validateStruct(*req)
	if req.Date != "" && !checkDate(req.Date) {
		fields["event_date"] = "invalid date format, use YYYY-MM-DD"
	}
	if req.TimeStart != "" && !checkTime(req.TimeStart) {
		fields["event_time_start"] = "invalid time format, use HH:MM"
	}
	if req.TimeEnd != "" && !checkTime(req.TimeEnd) {
		fields["event_time_end"] = "invalid time format, use HH:MM"
	}

	if req.Type == "" {
		req.Type = string(model.EventOnsite)
	} else if !checkEnum(req.Type, model.EventTypes) {
		fields["event_type"] = "invalid event type"
	}
	if req.Status == "" {
		req.Status = string(model.EventUpcoming)
	} else if !checkEnum(req.Status, model.EventStatuses) {
		fields["event_status"] = "invalid event status"
	}
	if req.Restriction == "" {
		req.Restriction = string(model.RestrictionPublic)
	} else if !checkEnum(req.Restriction, model.EventRestrictions) {
		fields["event_restriction"] = "invalid event restriction"
	}
	return fields
}

func eventFromRequest(req model.EventRequest) *model.Event {
	return &model.Event{
		Name:                 req.Name,
		Date:                 req.Date,
		TimeStart:            req.TimeStart,
		TimeEnd:              req.TimeEnd,
		Location:             req.Location,
		Description:          req.Description,
		Type:                 model.EventType(req.Type),
		Status:               model.EventStatus(req.Status),
		Restriction:          model.EventRestriction(req.Restriction),
		RegistrationRequired: req.RegistrationRequired,
	}
}

// Create validates the payload and stores a new event.
func (s *EventService) Create(ctx context.Context, req model.EventRequest) (*model.Event, error) {
	if fields := validateEventRequest(&req); len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}
	event := eventFromRequest(req)
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Get returns a single event.
func (s *EventService) Get(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	return s.events.FindByID(ctx, id)
}

// List returns a page of events narrowed by filters.
func (s *EventService) List(ctx context.Context, page, limit int, f model.EventFilters) ([]model.Event, model.Pagination, error) {
	fields := map[string]string{}
	if f.Status != "" && !checkEnum(f.Status, model.EventStatuses) {
		fields["status"] = "invalid event status"
	}
	if f.Type != "" && !checkEnum(f.Type, model.EventTypes) {
		fields["type"] = "invalid event type"
	}
	if f.Restriction != "" && !checkEnum(f.Restriction, model.EventRestrictions) {
		fields["restriction"] = "invalid event restriction"
	}
	if f.DateFrom != "" && !checkDate(f.DateFrom) {
		fields["date_from"] = "invalid date format, use YYYY-MM-DD"
	}
	if f.DateTo != "" && !checkDate(f.DateTo) {
		fields["date_to"] = "invalid date format, use YYYY-MM-DD"
	}
	if len(fields) > 0 {
		return nil, model.Pagination{}, apperr.Validation(fields)
	}
	page, limit = pageWindow(page, limit)

	events, err := s.events.List(ctx, page, limit, f)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, model.Pagination{Page: page, Limit: limit}, nil
}

// Update validates the payload and replaces an existing event. Status moves
// wherever the officer points it; there is no transition matrix.
func (s *EventService) Update(ctx context.Context, id uuid.UUID, req model.EventRequest) (*model.Event, error) {
	if _, err := s.events.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if fields := validateEventRequest(&req); len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}
	event := eventFromRequest(req)
	if err := s.events.Update(ctx, id, event); err != nil {
		return nil, err
	}
	return s.events.FindByID(ctx, id)
}

// Delete removes an event and, through the schema, its registrations.
func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.events.Delete(ctx, id)
}

// Upcoming returns the next events, soonest first.
func (s *EventService) Upcoming(ctx context.Context, limit int) ([]model.Event, error) {
	if limit < 1 {
		limit = 10
	}
	events, err := s.events.ListUpcoming(ctx, limit)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, nil
}

// Calendar returns events in [start, end] inclusive. Empty bounds default to
// the current month.
func (s *EventService) Calendar(ctx context.Context, start, end string) ([]model.Event, error) {
	now := time.Now()
	if start == "" {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
	}
	if end == "" {
		end = time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
	}
	if !checkDate(start) || !checkDate(end) {
		return nil, apperr.Validation(map[string]string{"date": "invalid date format, use YYYY-MM-DD"})
	}

	events, err := s.events.ListInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, nil
}

// Register records the caller's registration for an event. Duplicate
// attempts surface as a conflict, not a silent success.
func (s *EventService) Register(ctx context.Context, eventID, studentID uuid.UUID) (*model.Registration, error) {
	return s.registrations.Register(ctx, eventID, studentID)
}

// RegistrationSheet is the officer view of an event's registrations.
type RegistrationSheet struct {
	Event           *model.Event               `json:"event"`
	Registrations   []model.RegistrationDetail `json:"registrations"`
	TotalRegistered int                        `json:"total_registered"`
}

// Registrations returns the event together with everyone registered for it.
func (s *EventService) Registrations(ctx context.Context, eventID uuid.UUID) (*RegistrationSheet, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	regs, err := s.registrations.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if regs == nil {
		regs = []model.RegistrationDetail{}
	}
	return &RegistrationSheet{Event: event, Registrations: regs, TotalRegistered: len(regs)}, nil
}

// SetAttendance validates and applies an attendance status for a registrant.
func (s *EventService) SetAttendance(ctx context.Context, eventID, studentID uuid.UUID, req model.AttendanceRequest) error {
	if fields := validateStruct(req); len(fields) > 0 {
		return apperr.Validation(fields)
	}
	if !checkEnum(req.AttendanceStatus, model.AttendanceStatuses) {
		return apperr.Validation(map[string]string{"attendance_status": "invalid attendance status"})
	}
	return s.registrations.SetAttendance(ctx, eventID, studentID, model.AttendanceStatus(req.AttendanceStatus))
}
