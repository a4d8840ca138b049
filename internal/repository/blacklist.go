package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/msc-org/msc-backend/internal/apperr"
)

// BlacklistRepository stores revoked session tokens until their natural
// expiry. Logout writes here; the auth middleware reads.
type BlacklistRepository struct {
	db *pgxpool.Pool
}

// NewBlacklistRepository constructs a BlacklistRepository.
func NewBlacklistRepository(db *pgxpool.Pool) *BlacklistRepository {
	return &BlacklistRepository{db: db}
}

// Add revokes a token. Revoking the same token twice is a no-op.
func (r *BlacklistRepository) Add(ctx context.Context, token string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO token_blacklist (token, expires_at) VALUES ($1, $2)
		 ON CONFLICT (token) DO NOTHING`,
		token, expiresAt,
	)
	if err != nil {
		return apperr.Wrap("blacklist token", err)
	}
	return nil
}

// Contains reports whether a token has been revoked and is not yet expired.
// Expired rows are ignored rather than reaped; they can be cleared offline.
func (r *BlacklistRepository) Contains(ctx context.Context, token string) (bool, error) {
	var revoked bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM token_blacklist WHERE token = $1 AND expires_at > now())`,
		token,
	).Scan(&revoked)
	if err != nil {
		return false, apperr.Wrap("check token blacklist", err)
	}
	return revoked, nil
}
