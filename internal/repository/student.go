// Package repository implements all database access for the membership
// backend. It uses pgx directly (no ORM) for transparency and performance.
// Domain conditions surface as apperr-typed errors; everything else wraps as
// an internal error.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msc-org/msc-backend/internal/apperr"
	"github.com/msc-org/msc-backend/internal/model"
	"github.com/msc-org/msc-backend/internal/mscid"
)

// uniqueViolation is the PostgreSQL error code for unique-constraint breaks.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

const studentColumns = `
	id, username, email, password, first_name, middle_name, last_name,
	name_suffix, birthdate::text, gender, student_no, year_level, college,
	program, section, address, phone, facebook_link, role, is_active,
	COALESCE(msc_id, ''), created_at, updated_at`

// StudentRepository handles persistence for student accounts.
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create inserts a new student and assigns a membership ID, all inside one
// transaction. The uniqueness check, the insert and the counter increment
// commit or roll back together, so concurrent signups cannot share a
// membership ID or slip past the username/email check; the unique indexes
// remain as a backstop.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student, syCode string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperr.Wrap("begin transaction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM students WHERE username = $1 OR email = $2)`,
		s.Username, s.Email,
	).Scan(&exists)
	if err != nil {
		return apperr.Wrap("check duplicate credential", err)
	}
	if exists {
		err = apperr.Conflict("username or email already exists")
		return err
	}

	s.ID = uuid.New()
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	_, err = tx.Exec(ctx,
		`INSERT INTO students (
			id, username, email, password, first_name, middle_name, last_name,
			name_suffix, birthdate, gender, student_no, year_level, college,
			program, section, address, phone, facebook_link, role, is_active,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9::date, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22
		)`,
		s.ID, s.Username, s.Email, s.PasswordHash, s.FirstName, s.MiddleName,
		s.LastName, s.NameSuffix, s.Birthdate, s.Gender, s.StudentNo,
		s.YearLevel, s.College, s.Program, s.Section, s.Address, s.Phone,
		s.FacebookLink, s.Role, s.IsActive, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			err = apperr.Conflict("username or email already exists")
			return err
		}
		return apperr.Wrap("insert student", err)
	}

	s.MSCID, err = mscid.Issue(ctx, tx, s.Role, syCode)
	if err != nil {
		return apperr.Wrap("issue membership id", err)
	}

	_, err = tx.Exec(ctx, `UPDATE students SET msc_id = $1 WHERE id = $2`, s.MSCID, s.ID)
	if err != nil {
		return apperr.Wrap("assign membership id", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return apperr.Wrap("commit transaction", err)
	}
	return nil
}

func (r *StudentRepository) findBy(ctx context.Context, where string, arg any) (*model.Student, error) {
	var s model.Student
	err := r.db.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE `+where, arg,
	).Scan(
		&s.ID, &s.Username, &s.Email, &s.PasswordHash, &s.FirstName,
		&s.MiddleName, &s.LastName, &s.NameSuffix, &s.Birthdate, &s.Gender,
		&s.StudentNo, &s.YearLevel, &s.College, &s.Program, &s.Section,
		&s.Address, &s.Phone, &s.FacebookLink, &s.Role, &s.IsActive,
		&s.MSCID, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("student not found")
		}
		return nil, apperr.Wrap("get student", err)
	}
	return &s, nil
}

// FindByID returns a single student or a NotFound error.
func (r *StudentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	return r.findBy(ctx, "id = $1", id)
}

// FindByUsername returns a student by exact username match.
func (r *StudentRepository) FindByUsername(ctx context.Context, username string) (*model.Student, error) {
	return r.findBy(ctx, "username = $1", username)
}

// FindByEmail returns a student by exact email match.
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*model.Student, error) {
	return r.findBy(ctx, "email = $1", email)
}

// UpdateProfile replaces the mutable profile fields of a student.
func (r *StudentRepository) UpdateProfile(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE students SET
			first_name = $1, middle_name = $2, last_name = $3, name_suffix = $4,
			birthdate = $5::date, gender = $6, student_no = $7, year_level = $8,
			college = $9, program = $10, section = $11, address = $12,
			phone = $13, facebook_link = $14, updated_at = now()
		 WHERE id = $15`,
		req.FirstName, req.MiddleName, req.LastName, req.NameSuffix,
		req.Birthdate, req.Gender, req.StudentNo, req.YearLevel,
		req.College, req.Program, req.Section, req.Address,
		req.Phone, req.FacebookLink, id,
	)
	if err != nil {
		return apperr.Wrap("update profile", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("student not found")
	}
	return nil
}

// ChangePassword stores a new password hash for the student.
func (r *StudentRepository) ChangePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE students SET password = $1, updated_at = now() WHERE id = $2`,
		passwordHash, id,
	)
	if err != nil {
		return apperr.Wrap("change password", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("student not found")
	}
	return nil
}

// ToggleActive flips the active flag and returns the updated student.
func (r *StudentRepository) ToggleActive(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE students SET is_active = NOT is_active, updated_at = now() WHERE id = $1`, id,
	)
	if err != nil {
		return nil, apperr.Wrap("toggle active", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.NotFound("student not found")
	}
	return r.FindByID(ctx, id)
}

// List returns a page of students ordered by creation time descending.
// An empty role applies no filter.
func (r *StudentRepository) List(ctx context.Context, page, limit int, role model.Role) ([]model.Student, error) {
	offset := (page - 1) * limit

	var (
		rows pgx.Rows
		err  error
	)
	if role != "" {
		rows, err = r.db.Query(ctx,
			`SELECT `+studentColumns+` FROM students WHERE role = $1
			 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
			role, limit, offset,
		)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT `+studentColumns+` FROM students
			 ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
			limit, offset,
		)
	}
	if err != nil {
		return nil, apperr.Wrap("list students", err)
	}
	defer rows.Close()
	return scanStudents(rows)
}

// Search returns students whose name, username, email or membership ID
// contains the query, case-insensitively, newest first.
func (r *StudentRepository) Search(ctx context.Context, query string, page, limit int) ([]model.Student, error) {
	offset := (page - 1) * limit
	pattern := "%" + query + "%"

	rows, err := r.db.Query(ctx,
		`SELECT `+studentColumns+` FROM students
		 WHERE username ILIKE $1 OR email ILIKE $1
		    OR first_name ILIKE $1 OR last_name ILIKE $1
		    OR msc_id ILIKE $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		pattern, limit, offset,
	)
	if err != nil {
		return nil, apperr.Wrap("search students", err)
	}
	defer rows.Close()
	return scanStudents(rows)
}

// CountByRole returns the number of accounts holding the given role.
func (r *StudentRepository) CountByRole(ctx context.Context, role model.Role) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM students WHERE role = $1`, role,
	).Scan(&n)
	if err != nil {
		return 0, apperr.Wrap("count students", err)
	}
	return n, nil
}

func scanStudents(rows pgx.Rows) ([]model.Student, error) {
	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(
			&s.ID, &s.Username, &s.Email, &s.PasswordHash, &s.FirstName,
			&s.MiddleName, &s.LastName, &s.NameSuffix, &s.Birthdate, &s.Gender,
			&s.StudentNo, &s.YearLevel, &s.College, &s.Program, &s.Section,
			&s.Address, &s.Phone, &s.FacebookLink, &s.Role, &s.IsActive,
			&s.MSCID, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, apperr.Wrap("scan student", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap("iterate students", err)
	}
	return students, nil
}
