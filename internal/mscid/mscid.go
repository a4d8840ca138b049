// Package mscid issues membership identifiers.
//
// Officer IDs are scoped per school-year code (MSC<sy>EB-001, -002, ...);
// member IDs draw from a single global sequence (MSC-0001, -0002, ...).
// Sequences come from a dedicated counter table incremented atomically, so
// concurrent signups can never be handed the same number.
package mscid

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/msc-org/msc-backend/internal/model"
)

// Querier is the single-row query surface the issuer needs. Both *pgxpool.Pool
// and pgx.Tx satisfy it, so issuance can join a surrounding transaction.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// FormatOfficerID renders an officer membership ID for a school-year code.
func FormatOfficerID(syCode string, seq int64) string {
	return fmt.Sprintf("MSC%sEB-%03d", syCode, seq)
}

// FormatMemberID renders a member membership ID.
func FormatMemberID(seq int64) string {
	return fmt.Sprintf("MSC-%04d", seq)
}

// Scope names the counter row a role draws from.
func Scope(role model.Role, syCode string) string {
	if role == model.RoleOfficer {
		return "officer:" + syCode
	}
	return "member"
}

const nextSeqQuery = `
	INSERT INTO membership_counters (scope, value)
	VALUES ($1, 1)
	ON CONFLICT (scope) DO UPDATE SET value = membership_counters.value + 1
	RETURNING value`

// Issue allocates the next membership ID for a role under the given
// school-year code. The upsert increments the counter row atomically; two
// concurrent calls are serialized by the row lock and always see distinct
// sequence numbers.
func Issue(ctx context.Context, q Querier, role model.Role, syCode string) (string, error) {
	var seq int64
	if err := q.QueryRow(ctx, nextSeqQuery, Scope(role, syCode)).Scan(&seq); err != nil {
		return "", fmt.Errorf("next membership sequence: %w", err)
	}
	if role == model.RoleOfficer {
		return FormatOfficerID(syCode, seq), nil
	}
	return FormatMemberID(seq), nil
}
