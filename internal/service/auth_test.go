package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msc-org/msc-backend/internal/apperr"
	"github.com/msc-org/msc-backend/internal/auth"
	"github.com/msc-org/msc-backend/internal/model"
)

func newAuthService(students *fakeStudentStore) (*AuthService, *fakeBlacklist) {
	blacklist := newFakeBlacklist()
	tokens := auth.NewTokenManager("test-secret", 1)
	return NewAuthService(students, blacklist, tokens, "2526"), blacklist
}

func registerReq(username, email string) model.RegisterRequest {
	return model.RegisterRequest{
		Username:  username,
		Email:     email,
		Password:  "Secret123",
		FirstName: "Alice",
		LastName:  "Reyes",
		Birthdate: "2003-04-12",
		Gender:    "Female",
		StudentNo: "2023-00112",
		YearLevel: "3",
		College:   "CCS",
		Program:   "BSCS",
	}
}

func TestRegisterDefaultsToActiveMember(t *testing.T) {
	svc, _ := newAuthService(newFakeStudentStore())

	student, err := svc.Register(context.Background(), registerReq("alice", "a@x.com"))
	require.NoError(t, err)

	assert.Equal(t, model.RoleMember, student.Role)
	assert.True(t, student.IsActive)
	assert.Regexp(t, `^MSC-\d{4}$`, student.MSCID)
}

func TestRegisterLowercasesEmail(t *testing.T) {
	svc, _ := newAuthService(newFakeStudentStore())

	student, err := svc.Register(context.Background(), registerReq("alice", "Alice@X.Com"))
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", student.Email)
}

func TestRegisterDuplicateIsConflict(t *testing.T) {
	svc, _ := newAuthService(newFakeStudentStore())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("alice", "a@x.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerReq("alice", "other@x.com"))
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = svc.Register(ctx, registerReq("bob", "a@x.com"))
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService(newFakeStudentStore())

	tests := []struct {
		name   string
		mutate func(*model.RegisterRequest)
		field  string
	}{
		{"missing username", func(r *model.RegisterRequest) { r.Username = "" }, "username"},
		{"bad email", func(r *model.RegisterRequest) { r.Email = "not-an-email" }, "email"},
		{"short password", func(r *model.RegisterRequest) { r.Password = "abc" }, "password"},
		{"bad birthdate", func(r *model.RegisterRequest) { r.Birthdate = "12-04-2003" }, "birthdate"},
		{"bad gender", func(r *model.RegisterRequest) { r.Gender = "Unknown" }, "gender"},
		{"bad phone", func(r *model.RegisterRequest) { r.Phone = "call me" }, "phone"},
		{"bad role", func(r *model.RegisterRequest) { r.Role = "admin" }, "role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := registerReq("alice", "a@x.com")
			tt.mutate(&req)

			_, err := svc.Register(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Contains(t, apperr.FieldsOf(err), tt.field)
		})
	}
}

func TestOfficerIDSequenceIncreases(t *testing.T) {
	svc, _ := newAuthService(newFakeStudentStore())
	ctx := context.Background()

	reqA := registerReq("pres", "pres@x.com")
	reqA.Role = "officer"
	reqB := registerReq("vp", "vp@x.com")
	reqB.Role = "officer"

	a, err := svc.Register(ctx, reqA)
	require.NoError(t, err)
	b, err := svc.Register(ctx, reqB)
	require.NoError(t, err)

	assert.Equal(t, "MSC2526EB-001", a.MSCID)
	assert.Equal(t, "MSC2526EB-002", b.MSCID)
}

func TestLoginByUsernameAndEmail(t *testing.T) {
	students := newFakeStudentStore()
	svc, _ := newAuthService(students)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("alice", "a@x.com"))
	require.NoError(t, err)

	student, token, err := svc.Login(ctx, model.LoginRequest{Username: "alice", Password: "Secret123"})
	require.NoError(t, err)
	assert.Equal(t, "alice", student.Username)
	assert.NotEmpty(t, token)

	// The username field also accepts the account email.
	_, _, err = svc.Login(ctx, model.LoginRequest{Username: "a@x.com", Password: "Secret123"})
	require.NoError(t, err)
}

func TestLoginWrongPasswordIsAuthError(t *testing.T) {
	svc, _ := newAuthService(newFakeStudentStore())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("alice", "a@x.com"))
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, model.LoginRequest{Username: "alice", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))

	_, _, err = svc.Login(ctx, model.LoginRequest{Username: "nobody", Password: "Secret123"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(err))
}

func TestLoginDeactivatedAccountIsForbidden(t *testing.T) {
	students := newFakeStudentStore()
	svc, _ := newAuthService(students)
	ctx := context.Background()

	student, err := svc.Register(ctx, registerReq("alice", "a@x.com"))
	require.NoError(t, err)
	_, err = students.ToggleActive(ctx, student.ID)
	require.NoError(t, err)

	// Correct credentials, deactivated account.
	_, _, err = svc.Login(ctx, model.LoginRequest{Username: "alice", Password: "Secret123"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, blacklist := newAuthService(newFakeStudentStore())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("alice", "a@x.com"))
	require.NoError(t, err)
	_, token, err := svc.Login(ctx, model.LoginRequest{Username: "alice", Password: "Secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))
	revoked, err := blacklist.Contains(ctx, token)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestChangePasswordRequiresCurrent(t *testing.T) {
	svc, _ := newAuthService(newFakeStudentStore())
	ctx := context.Background()

	student, err := svc.Register(ctx, registerReq("alice", "a@x.com"))
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, student.ID, model.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "NewSecret123",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = svc.ChangePassword(ctx, student.ID, model.ChangePasswordRequest{
		CurrentPassword: "Secret123",
		NewPassword:     "NewSecret123",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, model.LoginRequest{Username: "alice", Password: "NewSecret123"})
	require.NoError(t, err)
}

func TestForgotPasswordNeverRevealsExistence(t *testing.T) {
	svc, _ := newAuthService(newFakeStudentStore())
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("alice", "a@x.com"))
	require.NoError(t, err)

	assert.NoError(t, svc.ForgotPassword(ctx, model.ForgotPasswordRequest{Email: "a@x.com"}))
	assert.NoError(t, svc.ForgotPassword(ctx, model.ForgotPasswordRequest{Email: "ghost@x.com"}))
}
