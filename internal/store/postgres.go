package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/relgraph/relgraph/internal/typeid"
)

const schema = `
CREATE TABLE IF NOT EXISTS diagram_snapshots (
	id           TEXT PRIMARY KEY,
	diagram_id   TEXT NOT NULL,
	sequence     BIGINT NOT NULL,
	publisher_id TEXT NOT NULL,
	snapshot     JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (diagram_id, sequence)
)`

// Postgres is a Store backed by a pgx connection pool. Only the latest
// snapshot of each diagram is kept.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to databaseURL and creates the table if needed.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}

func (p *Postgres) Latest(ctx context.Context, diagramID string) (*Record, error) {
	var rec Record
	err := p.pool.QueryRow(ctx, `
		SELECT id, diagram_id, sequence, publisher_id, snapshot, created_at
		FROM diagram_snapshots
		WHERE diagram_id = $1
		ORDER BY sequence DESC
		LIMIT 1`, diagramID).
		Scan(&rec.ID, &rec.DiagramID, &rec.Sequence, &rec.PublisherID, &rec.Snapshot, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get latest snapshot: %w", err)
	}
	return &rec, nil
}

func (p *Postgres) Save(ctx context.Context, diagramID, publisherID string, snapshot json.RawMessage) (*Record, error) {
	rec := &Record{
		ID:          typeid.NewSnapshotID(),
		DiagramID:   diagramID,
		PublisherID: publisherID,
		Snapshot:    snapshot,
	}

	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		// Serialize publishers of the same diagram.
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, diagramID); err != nil {
			return fmt.Errorf("lock diagram: %w", err)
		}
		err := tx.QueryRow(ctx, `
			SELECT COALESCE(MAX(sequence), 0) + 1
			FROM diagram_snapshots
			WHERE diagram_id = $1`, diagramID).Scan(&rec.Sequence)
		if err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO diagram_snapshots (id, diagram_id, sequence, publisher_id, snapshot)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at`,
			rec.ID, rec.DiagramID, rec.Sequence, rec.PublisherID, rec.Snapshot).Scan(&rec.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert snapshot: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			DELETE FROM diagram_snapshots
			WHERE diagram_id = $1 AND sequence < $2`, diagramID, rec.Sequence); err != nil {
			return fmt.Errorf("prune snapshots: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	return rec, nil
}
