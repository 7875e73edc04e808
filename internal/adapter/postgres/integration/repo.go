// Package integration implements the integration repository using PostgreSQL.
package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/flipflop-backend/internal/adapter/postgres"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

const columns = `id, team_id, type, credentials, settings, status, external_id, last_sync_at, last_error, created_at, updated_at`

// Repo provides integration persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new integration repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

type integrationRow struct {
	ID          uuid.UUID      `db:"id"`
	TeamID      uuid.UUID      `db:"team_id"`
	Type        string         `db:"type"`
	Credentials string         `db:"credentials"`
	Settings    map[string]any `db:"settings"`
	Status      string         `db:"status"`
	ExternalID  *string        `db:"external_id"`
	LastSyncAt  *time.Time     `db:"last_sync_at"`
	LastError   *string        `db:"last_error"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// Upsert creates the team's integration of the given type or, on re-auth,
// replaces its credentials, merges settings and returns it to active.
func (r *Repo) Upsert(ctx context.Context, i *domain.Integration) (*domain.Integration, error) {
	settings := i.Settings
	if settings == nil {
		settings = map[string]any{}
	}

	var row integrationRow
	err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row,
		`INSERT INTO integrations (team_id, type, credentials, settings, status, external_id)
		 VALUES ($1, $2, $3, $4, 'active', $5)
		 ON CONFLICT (team_id, type) DO UPDATE SET
		     credentials = EXCLUDED.credentials,
		     settings    = integrations.settings || EXCLUDED.settings,
		     status      = 'active',
		     external_id = COALESCE(EXCLUDED.external_id, integrations.external_id),
		     last_error  = NULL,
		     updated_at  = now()
		 RETURNING `+columns,
		i.TeamID, string(i.Type), i.Credentials, settings, i.ExternalID,
	)
	if err != nil {
		return nil, postgres.MapError(err, "integration", i.Type)
	}
	out := toDomain(row)
	return &out, nil
}

// GetByID returns an integration by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Integration, error) {
	return r.getOne(ctx, squirrel.Expr("id = ?", id), id)
}

// GetByType returns the team's integration of the given type.
func (r *Repo) GetByType(ctx context.Context, teamID uuid.UUID, typ domain.IntegrationType) (*domain.Integration, error) {
	return r.getOne(ctx, squirrel.Expr("team_id = ? AND type = ?", teamID, string(typ)), typ)
}

// GetByExternalID returns the integration bound to a provider workspace.
func (r *Repo) GetByExternalID(ctx context.Context, typ domain.IntegrationType, externalID string) (*domain.Integration, error) {
	return r.getOne(ctx, squirrel.Expr("type = ? AND external_id = ?", string(typ), externalID), externalID)
}

func (r *Repo) getOne(ctx context.Context, pred squirrel.Sqlizer, key any) (*domain.Integration, error) {
	query, args, err := postgres.Builder.Select(columns).From("integrations").Where(pred).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("integration.get build: %w", err)
	}

	var row integrationRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "integration", key)
	}
	out := toDomain(row)
	return &out, nil
}

// ListByTeam returns all of a team's integrations.
func (r *Repo) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]domain.Integration, error) {
	return r.list(ctx, squirrel.Expr("team_id = ?", teamID), teamID)
}

// ListByStatus returns every integration in the given status, across teams.
func (r *Repo) ListByStatus(ctx context.Context, status domain.IntegrationStatus) ([]domain.Integration, error) {
	return r.list(ctx, squirrel.Eq{"status": string(status)}, status)
}

func (r *Repo) list(ctx context.Context, pred squirrel.Sqlizer, key any) ([]domain.Integration, error) {
	query, args, err := postgres.Builder.Select(columns).From("integrations").Where(pred).OrderBy("created_at").ToSql()
	if err != nil {
		return nil, fmt.Errorf("integration.list build: %w", err)
	}

	var rows []integrationRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "integration", key)
	}
	out := make([]domain.Integration, len(rows))
	for i, row := range rows {
		out[i] = toDomain(row)
	}
	return out, nil
}

// UpdateCredentials replaces the encrypted credential blob, e.g. after a token refresh.
func (r *Repo) UpdateCredentials(ctx context.Context, id uuid.UUID, blob string) error {
	return r.exec(ctx, id, `UPDATE integrations SET credentials = $2, updated_at = now() WHERE id = $1`, id, blob)
}

// UpdateSettings merges settings into the stored ones (keys in settings win)
// and, when status is non-nil, sets the status. A nil settings map leaves the
// stored settings untouched.
func (r *Repo) UpdateSettings(ctx context.Context, id uuid.UUID, settings map[string]any, status *domain.IntegrationStatus) (*domain.Integration, error) {
	b := postgres.Builder.Update("integrations").
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", id).
		Suffix("RETURNING " + columns)
	if settings != nil {
		b = b.Set("settings", squirrel.Expr("integrations.settings || ?::jsonb", settings))
	}
	if status != nil {
		b = b.Set("status", string(*status))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("integration.UpdateSettings build: %w", err)
	}

	var row integrationRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "integration", id)
	}
	out := toDomain(row)
	return &out, nil
}

// MarkSynced records a successful sync and returns the integration to active.
func (r *Repo) MarkSynced(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.exec(ctx, id,
		`UPDATE integrations SET status = 'active', last_sync_at = $2, last_error = NULL, updated_at = now()
		 WHERE id = $1 AND status <> 'paused'`, id, at)
}

// MarkError moves the integration to error with a message.
func (r *Repo) MarkError(ctx context.Context, id uuid.UUID, msg string) error {
	return r.exec(ctx, id,
		`UPDATE integrations SET status = 'error', last_error = $2, updated_at = now() WHERE id = $1`, id, msg)
}

// Delete removes the team's integration of the given type.
// Returns domain.ErrNotFound if it did not exist.
func (r *Repo) Delete(ctx context.Context, teamID uuid.UUID, typ domain.IntegrationType) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx,
		`DELETE FROM integrations WHERE team_id = $1 AND type = $2`, teamID, string(typ))
	if err != nil {
		return postgres.MapError(err, "integration", typ)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("integration %s: %w", typ, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) exec(ctx context.Context, id uuid.UUID, sql string, args ...any) error {
	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "integration", id)
	}
	return nil
}

func toDomain(row integrationRow) domain.Integration {
	return domain.Integration{
		ID:          row.ID,
		TeamID:      row.TeamID,
		Type:        domain.IntegrationType(row.Type),
		Credentials: row.Credentials,
		Settings:    row.Settings,
		Status:      domain.IntegrationStatus(row.Status),
		ExternalID:  row.ExternalID,
		LastSyncAt:  row.LastSyncAt,
		LastError:   row.LastError,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
