package model

// Request payloads decoded from JSON bodies. Validation tags are enforced at
// the service layer; handlers only decode.

// RegisterRequest is the payload for account registration.
type RegisterRequest struct {
	Username     string `json:"username" validate:"required,min=3,max=50"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	FirstName    string `json:"first_name" validate:"required"`
	MiddleName   string `json:"middle_name"`
	LastName     string `json:"last_name" validate:"required"`
	NameSuffix   string `json:"name_suffix"`
	Birthdate    string `json:"birthdate" validate:"required"`
	Gender       string `json:"gender" validate:"required"`
	StudentNo    string `json:"student_no" validate:"required"`
	YearLevel    string `json:"year_level" validate:"required"`
	College      string `json:"college" validate:"required"`
	Program      string `json:"program" validate:"required"`
	Section      string `json:"section"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	FacebookLink string `json:"facebook_link"`
	Role         string `json:"role"`
}

// LoginRequest carries a username (or email) and password.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest is the payload for PUT /auth/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// ForgotPasswordRequest is the payload for POST /auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UpdateProfileRequest updates the mutable profile fields of a student.
// Credentials, role and membership ID are never touched here.
type UpdateProfileRequest struct {
	FirstName    string `json:"first_name" validate:"required"`
	MiddleName   string `json:"middle_name"`
	LastName     string `json:"last_name" validate:"required"`
	NameSuffix   string `json:"name_suffix"`
	Birthdate    string `json:"birthdate" validate:"required"`
	Gender       string `json:"gender" validate:"required"`
	StudentNo    string `json:"student_no" validate:"required"`
	YearLevel    string `json:"year_level" validate:"required"`
	College      string `json:"college" validate:"required"`
	Program      string `json:"program" validate:"required"`
	Section      string `json:"section"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	FacebookLink string `json:"facebook_link"`
}

// EventRequest creates or fully replaces an event.
type EventRequest struct {
	Name                 string `json:"event_name" validate:"required"`
	Date                 string `json:"event_date" validate:"required"`
	TimeStart            string `json:"event_time_start" validate:"required"`
	TimeEnd              string `json:"event_time_end" validate:"required"`
	Location             string `json:"location" validate:"required"`
	Description          string `json:"description" validate:"required"`
	Type                 string `json:"event_type"`
	Status               string `json:"event_status"`
	Restriction          string `json:"event_restriction"`
	RegistrationRequired bool   `json:"registration_required"`
}

// AttendanceRequest sets the attendance status of a registration.
type AttendanceRequest struct {
	AttendanceStatus string `json:"attendance_status" validate:"required"`
}

// EventFilters narrows event listings. Zero values mean "no filter".
type EventFilters struct {
	Status      string
	Type        string
	Restriction string
	DateFrom    string
	DateTo      string
}
