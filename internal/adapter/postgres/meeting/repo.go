// Package meeting implements the meeting transcript repository using PostgreSQL.
package meeting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/flipflop-backend/internal/adapter/postgres"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

const columns = `id, team_id, user_id, title, participants, transcript, status, started_at, ended_at`

// Appending is only allowed while recording; the conflict branch yields no
// row otherwise.
const appendSQL = `
INSERT INTO meetings (id, team_id, user_id, title, participants, transcript)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (team_id, id) DO UPDATE SET
    title        = COALESCE(EXCLUDED.title, meetings.title),
    participants = ARRAY(SELECT DISTINCT unnest(meetings.participants || EXCLUDED.participants)),
    transcript   = CASE WHEN meetings.transcript = '' THEN EXCLUDED.transcript
                        ELSE meetings.transcript || E'\n' || EXCLUDED.transcript END
WHERE meetings.status = 'recording'
RETURNING ` + columns

const endSQL = `
UPDATE meetings SET status = 'processing', ended_at = now()
WHERE team_id = $1 AND id = $2 AND status = 'recording'
RETURNING ` + columns

// Repo provides meeting persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new meeting repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

type meetingRow struct {
	ID           string     `db:"id"`
	TeamID       uuid.UUID  `db:"team_id"`
	UserID       uuid.UUID  `db:"user_id"`
	Title        *string    `db:"title"`
	Participants []string   `db:"participants"`
	Transcript   string     `db:"transcript"`
	Status       string     `db:"status"`
	StartedAt    time.Time  `db:"started_at"`
	EndedAt      *time.Time `db:"ended_at"`
}

// AppendTranscript appends caption text to the meeting, creating it on the
// first call. Returns domain.ErrConflict once the meeting has ended.
func (r *Repo) AppendTranscript(ctx context.Context, m *domain.Meeting, text string) (*domain.Meeting, error) {
	participants := m.Participants
	if participants == nil {
		participants = []string{}
	}

	var row meetingRow
	err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, appendSQL,
		m.ID, m.TeamID, m.UserID, m.Title, participants, text)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("meeting %s: %w", m.ID, domain.ErrConflict)
		}
		return nil, postgres.MapError(err, "meeting", m.ID)
	}
	out := toDomain(row)
	return &out, nil
}

// End moves a recording meeting to processing.
// Returns domain.ErrNotFound when no recording meeting matched.
func (r *Repo) End(ctx context.Context, teamID uuid.UUID, id string) (*domain.Meeting, error) {
	var row meetingRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, endSQL, teamID, id); err != nil {
		return nil, postgres.MapError(err, "meeting", id)
	}
	out := toDomain(row)
	return &out, nil
}

// Get returns a meeting by team and id.
func (r *Repo) Get(ctx context.Context, teamID uuid.UUID, id string) (*domain.Meeting, error) {
	query, args, err := postgres.Builder.Select(columns).From("meetings").
		Where("team_id = ? AND id = ?", teamID, id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("meeting.Get build: %w", err)
	}

	var row meetingRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "meeting", id)
	}
	out := toDomain(row)
	return &out, nil
}

// SetStatus sets the meeting's status.
func (r *Repo) SetStatus(ctx context.Context, teamID uuid.UUID, id string, status domain.MeetingStatus) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx,
		`UPDATE meetings SET status = $3 WHERE team_id = $1 AND id = $2`, teamID, id, string(status))
	if err != nil {
		return postgres.MapError(err, "meeting", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("meeting %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func toDomain(row meetingRow) domain.Meeting {
	return domain.Meeting{
		ID:           row.ID,
		TeamID:       row.TeamID,
		UserID:       row.UserID,
		Title:        row.Title,
		Participants: row.Participants,
		Transcript:   row.Transcript,
		Status:       domain.MeetingStatus(row.Status),
		StartedAt:    row.StartedAt,
		EndedAt:      row.EndedAt,
	}
}
