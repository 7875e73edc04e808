package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedTeam creates a team and returns its ID.
func SeedTeam(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO teams (name) VALUES ($1) RETURNING id`, "team-"+uniqueSuffix(),
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedTeam: %v", err)
	}
	return id
}

// SeedUser creates a user with the given role in the team.
func SeedUser(t *testing.T, pool *pgxpool.Pool, teamID uuid.UUID, role domain.Role) domain.User {
	t.Helper()

	suffix := uniqueSuffix()
	user := domain.User{
		ID:     uuid.New(),
		Email:  "testuser-" + suffix + "@example.com",
		Name:   "Test User " + suffix,
		TeamID: teamID,
		Role:   role,
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (id, email, name, team_id, role) VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
		user.ID, user.Email, user.Name, user.TeamID, string(user.Role),
	).Scan(&user.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedUser: %v", err)
	}
	return user
}

// SeedIntegration creates an active integration with the given opaque credential blob.
func SeedIntegration(t *testing.T, pool *pgxpool.Pool, teamID uuid.UUID, typ domain.IntegrationType, credentials string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO integrations (team_id, type, credentials) VALUES ($1, $2, $3) RETURNING id`,
		teamID, string(typ), credentials,
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedIntegration: %v", err)
	}
	return id
}

// SeedMemory inserts a memory with the given content and source.
func SeedMemory(t *testing.T, pool *pgxpool.Pool, teamID uuid.UUID, source, content string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO memories (team_id, content, type, source) VALUES ($1, $2, 'discussion', $3) RETURNING id`,
		teamID, content, source,
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedMemory: %v", err)
	}
	return id
}
