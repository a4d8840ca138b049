package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/msc-org/msc-backend/internal/apperr"
	"github.com/msc-org/msc-backend/internal/model"
	"github.com/msc-org/msc-backend/internal/mscid"
)

// In-memory stores mirroring the contracts of the pgx repositories.

type fakeStudentStore struct {
	students []*model.Student
	counters map[string]int64
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{counters: map[string]int64{}}
}

func (f *fakeStudentStore) Create(_ context.Context, s *model.Student, syCode string) error {
	for _, existing := range f.students {
		if existing.Username == s.Username || existing.Email == s.Email {
			return apperr.Conflict("username or email already exists")
		}
	}
	s.ID = uuid.New()
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	scope := mscid.Scope(s.Role, syCode)
	f.counters[scope]++
	if s.Role == model.RoleOfficer {
		s.MSCID = mscid.FormatOfficerID(syCode, f.counters[scope])
	} else {
		s.MSCID = mscid.FormatMemberID(f.counters[scope])
	}

	copied := *s
	f.students = append(f.students, &copied)
	return nil
}

func (f *fakeStudentStore) find(match func(*model.Student) bool) (*model.Student, error) {
	for _, s := range f.students {
		if match(s) {
			copied := *s
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("student not found")
}

func (f *fakeStudentStore) FindByID(_ context.Context, id uuid.UUID) (*model.Student, error) {
	return f.find(func(s *model.Student) bool { return s.ID == id })
}

func (f *fakeStudentStore) FindByUsername(_ context.Context, username string) (*model.Student, error) {
	return f.find(func(s *model.Student) bool { return s.Username == username })
}

func (f *fakeStudentStore) FindByEmail(_ context.Context, email string) (*model.Student, error) {
	return f.find(func(s *model.Student) bool { return s.Email == email })
}

func (f *fakeStudentStore) UpdateProfile(_ context.Context, id uuid.UUID, req model.UpdateProfileRequest) error {
	for _, s := range f.students {
		if s.ID == id {
			s.FirstName = req.FirstName
			s.LastName = req.LastName
			s.Birthdate = req.Birthdate
			s.Gender = req.Gender
			s.Phone = req.Phone
			return nil
		}
	}
	return apperr.NotFound("student not found")
}

func (f *fakeStudentStore) ChangePassword(_ context.Context, id uuid.UUID, hash string) error {
	for _, s := range f.students {
		if s.ID == id {
			s.PasswordHash = hash
			return nil
		}
	}
	return apperr.NotFound("student not found")
}

func (f *fakeStudentStore) ToggleActive(_ context.Context, id uuid.UUID) (*model.Student, error) {
	for _, s := range f.students {
		if s.ID == id {
			s.IsActive = !s.IsActive
			copied := *s
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("student not found")
}

func (f *fakeStudentStore) List(_ context.Context, page, limit int, role model.Role) ([]model.Student, error) {
	var out []model.Student
	for _, s := range f.students {
		if role == "" || s.Role == role {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return window(out, page, limit), nil
}

func (f *fakeStudentStore) Search(_ context.Context, query string, page, limit int) ([]model.Student, error) {
	q := strings.ToLower(query)
	var out []model.Student
	for _, s := range f.students {
		if strings.Contains(strings.ToLower(s.Username), q) ||
			strings.Contains(strings.ToLower(s.Email), q) ||
			strings.Contains(strings.ToLower(s.FirstName), q) ||
			strings.Contains(strings.ToLower(s.LastName), q) ||
			strings.Contains(strings.ToLower(s.MSCID), q) {
			out = append(out, *s)
		}
	}
	return window(out, page, limit), nil
}

func (f *fakeStudentStore) CountByRole(_ context.Context, role model.Role) (int, error) {
	n := 0
	for _, s := range f.students {
		if s.Role == role {
			n++
		}
	}
	return n, nil
}

type fakeEventStore struct {
	events []*model.Event
}

func (f *fakeEventStore) Create(_ context.Context, e *model.Event) error {
	e.ID = uuid.New()
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	copied := *e
	f.events = append(f.events, &copied)
	return nil
}

func (f *fakeEventStore) FindByID(_ context.Context, id uuid.UUID) (*model.Event, error) {
	for _, e := range f.events {
		if e.ID == id {
			copied := *e
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("event not found")
}

func (f *fakeEventStore) List(_ context.Context, page, limit int, filters model.EventFilters) ([]model.Event, error) {
	var out []model.Event
	for _, e := range f.events {
		if filters.Status != "" && string(e.Status) != filters.Status {
			continue
		}
		if filters.Type != "" && string(e.Type) != filters.Type {
			continue
		}
		if filters.Restriction != "" && string(e.Restriction) != filters.Restriction {
			continue
		}
		if filters.DateFrom != "" && e.Date < filters.DateFrom {
			continue
		}
		if filters.DateTo != "" && e.Date > filters.DateTo {
			continue
		}
		out = append(out, *e)
	}
	return window(out, page, limit), nil
}

func (f *fakeEventStore) Update(_ context.Context, id uuid.UUID, e *model.Event) error {
	for _, existing := range f.events {
		if existing.ID == id {
			updated := *e
			updated.ID = id
			updated.CreatedAt = existing.CreatedAt
			updated.UpdatedAt = time.Now().UTC()
			*existing = updated
			return nil
		}
	}
	return apperr.NotFound("event not found")
}

func (f *fakeEventStore) Delete(_ context.Context, id uuid.UUID) error {
	for i, e := range f.events {
		if e.ID == id {
			f.events = append(f.events[:i], f.events[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("event not found")
}

func (f *fakeEventStore) ListUpcoming(_ context.Context, limit int) ([]model.Event, error) {
	today := time.Now().Format("2006-01-02")
	var out []model.Event
	for _, e := range f.events {
		if e.Status == model.EventUpcoming && e.Date >= today {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeEventStore) ListInRange(_ context.Context, start, end string) ([]model.Event, error) {
	var out []model.Event
	for _, e := range f.events {
		if e.Date >= start && e.Date <= end {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

type regKey struct {
	event, student uuid.UUID
}

type fakeRegistrationStore struct {
	events *fakeEventStore
	regs   map[regKey]*model.Registration
}

func newFakeRegistrationStore(events *fakeEventStore) *fakeRegistrationStore {
	return &fakeRegistrationStore{events: events, regs: map[regKey]*model.Registration{}}
}

func (f *fakeRegistrationStore) Register(ctx context.Context, eventID, studentID uuid.UUID) (*model.Registration, error) {
	if _, err := f.events.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	key := regKey{eventID, studentID}
	if _, ok := f.regs[key]; ok {
		return nil, apperr.Conflict("already registered for this event")
	}
	reg := &model.Registration{
		ID:               uuid.New(),
		EventID:          eventID,
		StudentID:        studentID,
		AttendanceStatus: model.AttendanceRegistered,
		CreatedAt:        time.Now().UTC(),
	}
	f.regs[key] = reg
	copied := *reg
	return &copied, nil
}

func (f *fakeRegistrationStore) ListByEvent(_ context.Context, eventID uuid.UUID) ([]model.RegistrationDetail, error) {
	var out []model.RegistrationDetail
	for _, reg := range f.regs {
		if reg.EventID == eventID {
			out = append(out, model.RegistrationDetail{Registration: *reg})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeRegistrationStore) SetAttendance(_ context.Context, eventID, studentID uuid.UUID, status model.AttendanceStatus) error {
	reg, ok := f.regs[regKey{eventID, studentID}]
	if !ok {
		return apperr.NotFound("registration not found")
	}
	reg.AttendanceStatus = status
	return nil
}

type fakeBlacklist struct {
	tokens map[string]time.Time
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{tokens: map[string]time.Time{}}
}

func (f *fakeBlacklist) Add(_ context.Context, token string, expiresAt time.Time) error {
	f.tokens[token] = expiresAt
	return nil
}

func (f *fakeBlacklist) Contains(_ context.Context, token string) (bool, error) {
	exp, ok := f.tokens[token]
	return ok && exp.After(time.Now()), nil
}

func window[T any](items []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
