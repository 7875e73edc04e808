// Package audit implements the append-only audit log using PostgreSQL.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/flipflop-backend/internal/adapter/postgres"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

const (
	columns = `id, team_id, user_id, entity_type, entity_id, action, changes, created_at`

	defaultLimit = 50
	maxLimit     = 200
)

// Repo provides audit log persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new audit repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

type auditRow struct {
	ID         uuid.UUID      `db:"id"`
	TeamID     uuid.UUID      `db:"team_id"`
	UserID     *uuid.UUID     `db:"user_id"`
	EntityType string         `db:"entity_type"`
	EntityID   *uuid.UUID     `db:"entity_id"`
	Action     string         `db:"action"`
	Changes    map[string]any `db:"changes"`
	CreatedAt  time.Time      `db:"created_at"`
}

// Log appends a record. It joins the transaction in ctx, if any.
func (r *Repo) Log(ctx context.Context, rec domain.AuditRecord) error {
	changes := rec.Changes
	if changes == nil {
		changes = map[string]any{}
	}

	_, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx,
		`INSERT INTO audit_log (team_id, user_id, entity_type, entity_id, action, changes)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.TeamID, rec.UserID, string(rec.EntityType), rec.EntityID, string(rec.Action), changes,
	)
	if err != nil {
		return postgres.MapError(err, "audit_record", rec.TeamID)
	}
	return nil
}

// ListByTeam returns the team's most recent records, newest first.
func (r *Repo) ListByTeam(ctx context.Context, teamID uuid.UUID, limit int) ([]domain.AuditRecord, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	var rows []auditRow
	err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows,
		`SELECT `+columns+` FROM audit_log WHERE team_id = $1 ORDER BY created_at DESC LIMIT $2`,
		teamID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get audit_log by team: %w", err)
	}

	out := make([]domain.AuditRecord, len(rows))
	for i, row := range rows {
		out[i] = domain.AuditRecord{
			ID:         row.ID,
			TeamID:     row.TeamID,
			UserID:     row.UserID,
			EntityType: domain.AuditEntity(row.EntityType),
			EntityID:   row.EntityID,
			Action:     domain.AuditAction(row.Action),
			Changes:    row.Changes,
			CreatedAt:  row.CreatedAt,
		}
	}
	return out, nil
}
