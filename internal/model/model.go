// Package model defines the core domain types for the membership backend.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is the account role within the organization.
type Role string

const (
	RoleMember  Role = "member"
	RoleOfficer Role = "officer"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool { return r == RoleMember || r == RoleOfficer }

// Genders accepted on student profiles.
var Genders = []string{"Male", "Female", "Other"}

// EventType describes how an event is held.
type EventType string

const (
	EventOnsite EventType = "onsite"
	EventOnline EventType = "online"
	EventHybrid EventType = "hybrid"
)

// EventTypes lists the accepted event types.
var EventTypes = []string{string(EventOnsite), string(EventOnline), string(EventHybrid)}

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventCanceled  EventStatus = "canceled"
	EventCompleted EventStatus = "completed"
)

// EventStatuses lists the accepted event statuses.
var EventStatuses = []string{string(EventUpcoming), string(EventCanceled), string(EventCompleted)}

// EventRestriction controls who may see an event.
type EventRestriction string

const (
	RestrictionPublic   EventRestriction = "public"
	RestrictionMembers  EventRestriction = "members"
	RestrictionOfficers EventRestriction = "officers"
)

// EventRestrictions lists the accepted restriction values.
var EventRestrictions = []string{string(RestrictionPublic), string(RestrictionMembers), string(RestrictionOfficers)}

// AttendanceStatus tracks a registrant's attendance for an event.
type AttendanceStatus string

const (
	AttendanceRegistered AttendanceStatus = "registered"
	AttendanceAttended   AttendanceStatus = "attended"
	AttendanceAbsent     AttendanceStatus = "absent"
)

// AttendanceStatuses lists the accepted attendance values.
var AttendanceStatuses = []string{string(AttendanceRegistered), string(AttendanceAttended), string(AttendanceAbsent)}

// Student is a member or officer account. PasswordHash never serializes.
type Student struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	MiddleName   string    `json:"middle_name"`
	LastName     string    `json:"last_name"`
	NameSuffix   string    `json:"name_suffix"`
	Birthdate    string    `json:"birthdate"` // YYYY-MM-DD
	Gender       string    `json:"gender"`
	StudentNo    string    `json:"student_no"`
	YearLevel    string    `json:"year_level"`
	College      string    `json:"college"`
	Program      string    `json:"program"`
	Section      string    `json:"section"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	FacebookLink string    `json:"facebook_link"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	MSCID        string    `json:"msc_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Event is an organization event that students can register for.
type Event struct {
	ID                   uuid.UUID        `json:"id"`
	Name                 string           `json:"event_name"`
	Date                 string           `json:"event_date"`       // YYYY-MM-DD
	TimeStart            string           `json:"event_time_start"` // HH:MM
	TimeEnd              string           `json:"event_time_end"`   // HH:MM
	Location             string           `json:"location"`
	Description          string           `json:"description"`
	Type                 EventType        `json:"event_type"`
	Status               EventStatus      `json:"event_status"`
	Restriction          EventRestriction `json:"event_restriction"`
	RegistrationRequired bool             `json:"registration_required"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// Registration links one student to one event with an attendance status.
type Registration struct {
	ID               uuid.UUID        `json:"id"`
	EventID          uuid.UUID        `json:"event_id"`
	StudentID        uuid.UUID        `json:"student_id"`
	AttendanceStatus AttendanceStatus `json:"attendance_status"`
	CreatedAt        time.Time        `json:"created_at"`
}

// RegistrationDetail is a registration joined with the registrant's identity,
// used in officer-facing attendance sheets.
type RegistrationDetail struct {
	Registration
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	MSCID     string `json:"msc_id"`
}

// Pagination echoes back the page window applied to a listing.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}
