// Package memory implements the memory repository using PostgreSQL.
package memory

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

var columns = []string{
	"id", "team_id", "content", "type", "source", "source_id", "source_url", "author",
	"participants", "timestamp", "metadata", "embedding", "created_by", "created_at", "updated_at",
}

const returning = `RETURNING id, team_id, content, type, source, source_id, source_url, author,
	participants, timestamp, metadata, embedding, created_by, created_at, updated_at`

// Repo provides memory persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new memory repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

type memoryRow struct {
	ID           uuid.UUID      `db:"id"`
	TeamID       uuid.UUID      `db:"team_id"`
	Content      string         `db:"content"`
	Type         string         `db:"type"`
	Source       string         `db:"source"`
	SourceID     *string        `db:"source_id"`
	SourceURL    *string        `db:"source_url"`
	Author       *string        `db:"author"`
	Participants []string       `db:"participants"`
	Timestamp    time.Time      `db:"timestamp"`
	Metadata     map[string]any `db:"metadata"`
	Embedding    []float32      `db:"embedding"`
	CreatedBy    *uuid.UUID     `db:"created_by"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

type upsertRow struct {
	memoryRow
	Inserted bool `db:"inserted"`
}

// Insert stores a new memory.
func (r *Repo) Insert(ctx context.Context, m *domain.Memory) (*domain.Memory, error) {
	var row memoryRow
	err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row,
		`INSERT INTO memories (team_id, content, type, source, source_id, source_url, author,
		                       participants, timestamp, metadata, embedding, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 `+returning,
		insertArgs(m)...,
	)
	if err != nil {
		return nil, postgres.MapError(err, "memory", m.TeamID)
	}
	out := toDomain(row)
	return &out, nil
}

// Upsert inserts a memory or, when (team, source, source_id) already exists,
// replaces its content in place. inserted reports which happened.
// m.SourceID must be set.
func (r *Repo) Upsert(ctx context.Context, m *domain.Memory) (_ *domain.Memory, inserted bool, err error) {
	if m.SourceID == nil {
		return nil, false, fmt.Errorf("memory.Upsert: source_id is required")
	}

	var row upsertRow
	err = pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row,
		`INSERT INTO memories (team_id, content, type, source, source_id, source_url, author,
		                       participants, timestamp, metadata, embedding, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (team_id, source, source_id) WHERE source_id IS NOT NULL DO UPDATE SET
		     content      = EXCLUDED.content,
		     type         = EXCLUDED.type,
		     source_url   = EXCLUDED.source_url,
		     author       = EXCLUDED.author,
		     participants = EXCLUDED.participants,
		     timestamp    = EXCLUDED.timestamp,
		     metadata     = EXCLUDED.metadata,
		     embedding    = EXCLUDED.embedding,
		     updated_at   = now()
		 `+returning+`, (xmax = 0) AS inserted`,
		insertArgs(m)...,
	)
	if err != nil {
		return nil, false, postgres.MapError(err, "memory", *m.SourceID)
	}
	out := toDomain(row.memoryRow)
	return &out, row.Inserted, nil
}

// GetByID returns a team's memory by ID.
func (r *Repo) GetByID(ctx context.Context, teamID, id uuid.UUID) (*domain.Memory, error) {
	query, args, err := postgres.Builder.Select(columns...).
		From("memories").
		Where("team_id = ? AND id = ?", teamID, id).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("memory.GetByID build: %w", err)
	}

	var row memoryRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "memory", id)
	}
	out := toDomain(row)
	return &out, nil
}

// Search returns a team's memories matching filter. A non-empty query is
// matched with Postgres full-text search and ranked; otherwise results are
// ordered newest first.
func (r *Repo) Search(ctx context.Context, teamID uuid.UUID, filter domain.MemoryFilter) ([]domain.Memory, error) {
	b := postgres.Builder.Select(columns...).
		From("memories").
		Where("team_id = ?", teamID)

	if filter.Type != nil {
		b = b.Where(squirrel.Eq{"type": string(*filter.Type)})
	}
	if filter.Source != nil {
		b = b.Where(squirrel.Eq{"source": *filter.Source})
	}
	if filter.From != nil {
		b = b.Where(squirrel.GtOrEq{"timestamp": *filter.From})
	}
	if filter.To != nil {
		b = b.Where(squirrel.LtOrEq{"timestamp": *filter.To})
	}
	if filter.Query != "" {
		b = b.Where("search_tsv @@ websearch_to_tsquery('english', ?)", filter.Query).
			OrderByClause("ts_rank(search_tsv, websearch_to_tsquery('english', ?)) DESC", filter.Query)
	}
	b = b.OrderBy("timestamp DESC").Limit(uint64(filter.NormalizedLimit()))

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("memory.Search build: %w", err)
	}

	var rows []memoryRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "memory", teamID)
	}

	out := make([]domain.Memory, len(rows))
	for i, row := range rows {
		out[i] = toDomain(row)
	}
	return out, nil
}

// Update patches a memory's type and/or metadata. Nil arguments are left unchanged.
func (r *Repo) Update(ctx context.Context, teamID, id uuid.UUID, typ *domain.MemoryType, metadata map[string]any) (*domain.Memory, error) {
	b := postgres.Builder.Update("memories").
		Set("updated_at", squirrel.Expr("now()")).
		Where("team_id = ? AND id = ?", teamID, id).
		Suffix(returning)
	if typ != nil {
		b = b.Set("type", string(*typ))
	}
	if metadata != nil {
		b = b.Set("metadata", metadata)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("memory.Update build: %w", err)
	}

	var row memoryRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "memory", id)
	}
	out := toDomain(row)
	return &out, nil
}

// Delete removes a team's memory. Returns domain.ErrNotFound if nothing was deleted.
func (r *Repo) Delete(ctx context.Context, teamID, id uuid.UUID) error {
	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx,
		`DELETE FROM memories WHERE team_id = $1 AND id = $2`, teamID, id)
	if err != nil {
		return postgres.MapError(err, "memory", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("memory %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

type countRow struct {
	Key   string `db:"key"`
	Count int    `db:"count"`
}

// Stats aggregates a team's memories. Recent activity counts memories
// created at or after since.
func (r *Repo) Stats(ctx context.Context, teamID uuid.UUID, since time.Time) (domain.TeamStats, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)
	stats := domain.TeamStats{ByType: map[string]int{}, BySource: map[string]int{}}

	if err := q.QueryRow(ctx,
		`SELECT count(*), count(*) FILTER (WHERE created_at >= $2) FROM memories WHERE team_id = $1`,
		teamID, since,
	).Scan(&stats.Total, &stats.RecentActivity); err != nil {
		return stats, postgres.MapError(err, "memory_stats", teamID)
	}

	var byType []countRow
	if err := pgxscan.Select(ctx, q, &byType,
		`SELECT type AS key, count(*) AS count FROM memories WHERE team_id = $1 GROUP BY type`, teamID); err != nil {
		return stats, postgres.MapError(err, "memory_stats", teamID)
	}
	for _, c := range byType {
		stats.ByType[c.Key] = c.Count
	}

	var bySource []countRow
	if err := pgxscan.Select(ctx, q, &bySource,
		`SELECT source AS key, count(*) AS count FROM memories WHERE team_id = $1 GROUP BY source`, teamID); err != nil {
		return stats, postgres.MapError(err, "memory_stats", teamID)
	}
	for _, c := range bySource {
		stats.BySource[c.Key] = c.Count
	}

	return stats, nil
}

func insertArgs(m *domain.Memory) []any {
	participants := m.Participants
	if participants == nil {
		participants = []string{}
	}
	metadata := m.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return []any{
		m.TeamID, m.Content, string(m.Type), m.Source, m.SourceID, m.SourceURL, m.Author,
		participants, ts, metadata, m.Embedding, m.CreatedBy,
	}
}

func toDomain(row memoryRow) domain.Memory {
	return domain.Memory{
		ID:           row.ID,
		TeamID:       row.TeamID,
		Content:      row.Content,
		Type:         domain.MemoryType(row.Type),
		Source:       row.Source,
		SourceID:     row.SourceID,
		SourceURL:    row.SourceURL,
		Author:       row.Author,
		Participants: row.Participants,
		Timestamp:    row.Timestamp,
		Metadata:     row.Metadata,
		Embedding:    row.Embedding,
		CreatedBy:    row.CreatedBy,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
