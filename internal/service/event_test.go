package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msc-org/msc-backend/internal/apperr"
	"github.com/msc-org/msc-backend/internal/model"
)

func newEventService() (*EventService, *fakeEventStore, *fakeRegistrationStore) {
	events := &fakeEventStore{}
	regs := newFakeRegistrationStore(events)
	return NewEventService(events, regs), events, regs
}

func eventReq(name, date string) model.EventRequest {
	return model.EventRequest{
		Name:        name,
		Date:        date,
		TimeStart:   "13:00",
		TimeEnd:     "17:00",
		Location:    "AVR 2",
		Description: "General assembly",
	}
}

func TestCreateEventAppliesDefaults(t *testing.T) {
	svc, _, _ := newEventService()

	event, err := svc.Create(context.Background(), eventReq("GA", "2026-09-20"))
	require.NoError(t, err)

	assert.Equal(t, model.EventOnsite, event.Type)
	assert.Equal(t, model.EventUpcoming, event.Status)
	assert.Equal(t, model.RestrictionPublic, event.Restriction)
	assert.False(t, event.RegistrationRequired)
}

func TestCreateEventValidation(t *testing.T) {
	svc, _, _ := newEventService()

	tests := []struct {
		name   string
		mutate func(*model.EventRequest)
		field  string
	}{
		{"missing name", func(r *model.EventRequest) { r.Name = "" }, "event_name"},
		{"bad date", func(r *model.EventRequest) { r.Date = "20-09-2026" }, "event_date"},
		{"bad start time", func(r *model.EventRequest) { r.TimeStart = "1pm" }, "event_time_start"},
		{"bad end time", func(r *model.EventRequest) { r.TimeEnd = "25:00" }, "event_time_end"},
		{"bad type", func(r *model.EventRequest) { r.Type = "metaverse" }, "event_type"},
		{"bad status", func(r *model.EventRequest) { r.Status = "postponed" }, "event_status"},
		{"bad restriction", func(r *model.EventRequest) { r.Restriction = "vip" }, "event_restriction"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := eventReq("GA", "2026-09-20")
			tt.mutate(&req)

			_, err := svc.Create(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Contains(t, apperr.FieldsOf(err), tt.field)
		})
	}
}

func TestUpdateEventMovesStatusFreely(t *testing.T) {
	svc, _, _ := newEventService()
	ctx := context.Background()

	event, err := svc.Create(ctx, eventReq("GA", "2026-09-20"))
	require.NoError(t, err)

	req := eventReq("GA", "2026-09-20")
	req.Status = "canceled"
	updated, err := svc.Update(ctx, event.ID, req)
	require.NoError(t, err)
	assert.Equal(t, model.EventCanceled, updated.Status)

	req.Status = "upcoming"
	updated, err = svc.Update(ctx, event.ID, req)
	require.NoError(t, err)
	assert.Equal(t, model.EventUpcoming, updated.Status)
}

func TestUpdateMissingEventIsNotFound(t *testing.T) {
	svc, _, _ := newEventService()

	_, err := svc.Update(context.Background(), uuid.New(), eventReq("GA", "2026-09-20"))
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListFilterValidation(t *testing.T) {
	svc, _, _ := newEventService()

	_, _, err := svc.List(context.Background(), 1, 20, model.EventFilters{Status: "postponed"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, _, err = svc.List(context.Background(), 1, 20, model.EventFilters{DateFrom: "tomorrow"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestListFiltersByDateRange(t *testing.T) {
	svc, _, _ := newEventService()
	ctx := context.Background()

	_, err := svc.Create(ctx, eventReq("Early", "2026-01-10"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, eventReq("Late", "2026-12-10"))
	require.NoError(t, err)

	events, _, err := svc.List(ctx, 1, 20, model.EventFilters{DateFrom: "2026-06-01", DateTo: "2026-12-31"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Late", events[0].Name)
}

func TestCalendarRangeIsInclusive(t *testing.T) {
	svc, _, _ := newEventService()
	ctx := context.Background()

	_, err := svc.Create(ctx, eventReq("OnStart", "2026-09-01"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, eventReq("OnEnd", "2026-09-30"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, eventReq("Outside", "2026-10-01"))
	require.NoError(t, err)

	events, err := svc.Calendar(ctx, "2026-09-01", "2026-09-30")
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestRegisterTwiceIsConflictAndKeepsOneRow(t *testing.T) {
	svc, _, _ := newEventService()
	ctx := context.Background()
	student := uuid.New()

	event, err := svc.Create(ctx, eventReq("GA", "2026-09-20"))
	require.NoError(t, err)

	reg, err := svc.Register(ctx, event.ID, student)
	require.NoError(t, err)
	assert.Equal(t, model.AttendanceRegistered, reg.AttendanceStatus)

	_, err = svc.Register(ctx, event.ID, student)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	sheet, err := svc.Registrations(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, sheet.TotalRegistered)
}

func TestRegisterForMissingEventIsNotFound(t *testing.T) {
	svc, _, _ := newEventService()

	_, err := svc.Register(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSetAttendanceTransitions(t *testing.T) {
	svc, _, _ := newEventService()
	ctx := context.Background()
	student := uuid.New()

	event, err := svc.Create(ctx, eventReq("GA", "2026-09-20"))
	require.NoError(t, err)
	_, err = svc.Register(ctx, event.ID, student)
	require.NoError(t, err)

	err = svc.SetAttendance(ctx, event.ID, student, model.AttendanceRequest{AttendanceStatus: "attended"})
	require.NoError(t, err)
	err = svc.SetAttendance(ctx, event.ID, student, model.AttendanceRequest{AttendanceStatus: "absent"})
	require.NoError(t, err)

	sheet, err := svc.Registrations(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, sheet.Registrations, 1)
	assert.Equal(t, model.AttendanceAbsent, sheet.Registrations[0].AttendanceStatus)
}

func TestSetAttendanceRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newEventService()
	ctx := context.Background()
	student := uuid.New()

	event, err := svc.Create(ctx, eventReq("GA", "2026-09-20"))
	require.NoError(t, err)
	_, err = svc.Register(ctx, event.ID, student)
	require.NoError(t, err)

	err = svc.SetAttendance(ctx, event.ID, student, model.AttendanceRequest{AttendanceStatus: "late"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestSetAttendanceWithoutRegistrationIsNotFound(t *testing.T) {
	svc, _, _ := newEventService()
	ctx := context.Background()

	event, err := svc.Create(ctx, eventReq("GA", "2026-09-20"))
	require.NoError(t, err)

	err = svc.SetAttendance(ctx, event.ID, uuid.New(), model.AttendanceRequest{AttendanceStatus: "attended"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteEvent(t *testing.T) {
	svc, events, _ := newEventService()
	ctx := context.Background()

	event, err := svc.Create(ctx, eventReq("GA", "2026-09-20"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, event.ID))
	_, err = events.FindByID(ctx, event.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
