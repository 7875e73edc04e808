// Package user implements the User repository using PostgreSQL.
package user

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/flipflop-backend/internal/adapter/postgres"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

const userColumns = `id, email, name, team_id, role, created_at`

// Repo provides user and team persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new user repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

type userRow struct {
	ID        uuid.UUID `db:"id"`
	Email     string    `db:"email"`
	Name      string    `db:"name"`
	TeamID    uuid.UUID `db:"team_id"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
}

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var row userRow
	err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}
	u := toDomain(row)
	return &u, nil
}

// GetByEmail returns a user by email address.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var row userRow
	err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		return nil, postgres.MapError(err, "user", email)
	}
	u := toDomain(row)
	return &u, nil
}

// ListByTeamRoles returns team members holding any of the given roles,
// oldest first.
func (r *Repo) ListByTeamRoles(ctx context.Context, teamID uuid.UUID, roles ...domain.Role) ([]domain.User, error) {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}

	var rows []userRow
	err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows,
		`SELECT `+userColumns+` FROM users WHERE team_id = $1 AND role = ANY($2) ORDER BY created_at`,
		teamID, names)
	if err != nil {
		return nil, postgres.MapError(err, "user", teamID)
	}

	out := make([]domain.User, len(rows))
	for i, row := range rows {
		out[i] = toDomain(row)
	}
	return out, nil
}

// Create inserts a user. The team must exist.
func (r *Repo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	var row userRow
	err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row,
		`INSERT INTO users (id, email, name, team_id, role) VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		u.ID, u.Email, u.Name, u.TeamID, string(u.Role))
	if err != nil {
		return nil, postgres.MapError(err, "user", u.ID)
	}
	out := toDomain(row)
	return &out, nil
}

// SetRole changes a user's team role and returns the updated user.
func (r *Repo) SetRole(ctx context.Context, id uuid.UUID, role domain.Role) (*domain.User, error) {
	var row userRow
	err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row,
		`UPDATE users SET role = $2 WHERE id = $1 RETURNING `+userColumns,
		id, string(role))
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}
	u := toDomain(row)
	return &u, nil
}

// CreateTeam inserts a team and returns it.
func (r *Repo) CreateTeam(ctx context.Context, name string) (*domain.Team, error) {
	var t domain.Team
	err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx,
		`INSERT INTO teams (name) VALUES ($1) RETURNING id, name, created_at`, name,
	).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("user.CreateTeam: %w", postgres.MapError(err, "team", name))
	}
	return &t, nil
}

func toDomain(row userRow) domain.User {
	return domain.User{
		ID:        row.ID,
		Email:     row.Email,
		Name:      row.Name,
		TeamID:    row.TeamID,
		Role:      domain.Role(row.Role),
		CreatedAt: row.CreatedAt,
	}
}
