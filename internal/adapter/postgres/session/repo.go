// Package session implements the extension session repository using PostgreSQL.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/flipflop-backend/internal/adapter/postgres"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

const sessionColumns = `id, user_id, token_hash, expires_at, revoked_at, created_at`

const createSQL = `
INSERT INTO extension_sessions (user_id, token_hash, expires_at)
VALUES ($1, $2, $3)
RETURNING ` + sessionColumns

const getByHashSQL = `
SELECT ` + sessionColumns + `
FROM extension_sessions
WHERE token_hash = $1 AND revoked_at IS NULL AND expires_at > now()`

const revokeByHashSQL = `
UPDATE extension_sessions SET revoked_at = now()
WHERE token_hash = $1 AND user_id = $2 AND revoked_at IS NULL`

const revokeAllByUserSQL = `
UPDATE extension_sessions SET revoked_at = now()
WHERE user_id = $1 AND revoked_at IS NULL`

const deleteStaleSQL = `
DELETE FROM extension_sessions
WHERE expires_at < now() OR (revoked_at IS NOT NULL AND revoked_at < $1)`

// Repo provides extension session persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new session repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

type sessionRow struct {
	ID        uuid.UUID  `db:"id"`
	UserID    uuid.UUID  `db:"user_id"`
	TokenHash string     `db:"token_hash"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
	CreatedAt time.Time  `db:"created_at"`
}

// Create inserts a new session for the given token hash.
func (r *Repo) Create(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*domain.ExtensionSession, error) {
	var row sessionRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, createSQL, userID, tokenHash, expiresAt); err != nil {
		return nil, postgres.MapError(err, "extension_session", userID)
	}
	s := toDomain(row)
	return &s, nil
}

// GetByHash returns an active (non-revoked, non-expired) session by token hash.
// Returns domain.ErrNotFound if the session does not exist, is revoked, or is expired.
func (r *Repo) GetByHash(ctx context.Context, tokenHash string) (*domain.ExtensionSession, error) {
	var row sessionRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, getByHashSQL, tokenHash); err != nil {
		return nil, postgres.MapError(err, "extension_session", "hash")
	}
	s := toDomain(row)
	return &s, nil
}

// RevokeByHash revokes the caller's session with the given hash.
// Returns domain.ErrNotFound if no active session matched.
func (r *Repo) RevokeByHash(ctx context.Context, userID uuid.UUID, tokenHash string) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, revokeByHashSQL, tokenHash, userID)
	if err != nil {
		return postgres.MapError(err, "extension_session", userID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("extension_session: %w", domain.ErrNotFound)
	}
	return nil
}

// RevokeAllByUser revokes every active session of the user and returns the count.
func (r *Repo) RevokeAllByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, revokeAllByUserSQL, userID)
	if err != nil {
		return 0, postgres.MapError(err, "extension_session", userID)
	}
	return int(tag.RowsAffected()), nil
}

// DeleteStale removes expired sessions and sessions revoked before cutoff.
// May delete many records; does not use a transaction.
func (r *Repo) DeleteStale(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, deleteStaleSQL, cutoff)
	if err != nil {
		return 0, postgres.MapError(err, "extension_session", "stale")
	}
	return int(tag.RowsAffected()), nil
}

func toDomain(row sessionRow) domain.ExtensionSession {
	return domain.ExtensionSession{
		ID:        row.ID,
		UserID:    row.UserID,
		TokenHash: row.TokenHash,
		ExpiresAt: row.ExpiresAt,
		CreatedAt: row.CreatedAt,
		RevokedAt: row.RevokedAt,
	}
}
