// Package store optionally persists audit snapshots and verification
// verdicts for forensic review. It is entirely optional: absence of a
// DATABASE_URL disables it and every caller continues without persistence.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/i1is/trustplane/pkg/models"
)

// Store persists snapshots and verdicts to PostgreSQL via pgx.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool against connStr and verifies it with a ping.
func Connect(ctx context.Context, connStr string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	log.Println("[store] connected to PostgreSQL history store")
	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InitSchema creates the tables this store needs if they don't already exist.
func (s *Store) InitSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS audit_snapshots (
	snapshot_id TEXT PRIMARY KEY,
	node_id TEXT NOT NULL,
	collected_at TIMESTAMPTZ NOT NULL,
	digest TEXT NOT NULL,
	summary JSONB NOT NULL,
	raw JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS verification_verdicts (
	id BIGSERIAL PRIMARY KEY,
	node_id TEXT NOT NULL,
	digest TEXT NOT NULL,
	verdict TEXT NOT NULL,
	observed_at TIMESTAMPTZ NOT NULL
);
`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("store: init schema: %w", err)
	}
	return nil
}

// SaveSnapshot persists one audit pass, keyed by its SnapshotID, with the
// digest stored alongside. Each pass gets a fresh SnapshotID, so repeated
// identical scans are stored as separate rows; a second save of the same
// SnapshotID overwrites its digest, summary and raw JSON.
func (s *Store) SaveSnapshot(ctx context.Context, snapshot models.AuditSnapshot, digest string) error {
	summary, err := json.Marshal(snapshot.Summary)
	if err != nil {
		return fmt.Errorf("store: marshal summary: %w", err)
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("store: marshal snapshot: %w", err)
	}
	const sql = `
INSERT INTO audit_snapshots (snapshot_id, node_id, collected_at, digest, summary, raw)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (snapshot_id) DO UPDATE
SET digest = EXCLUDED.digest, summary = EXCLUDED.summary, raw = EXCLUDED.raw;
`
	_, err = s.pool.Exec(ctx, sql, snapshot.SnapshotID, snapshot.NodeID, snapshot.CollectedAt, digest, summary, raw)
	if err != nil {
		return fmt.Errorf("store: save snapshot: %w", err)
	}
	return nil
}

// SaveVerdict records one verification outcome for later trend analysis
// (e.g. "how often has this node gone Tampered in the last month").
func (s *Store) SaveVerdict(ctx context.Context, nodeID, digest, verdict string, observedAt time.Time) error {
	const sql = `
INSERT INTO verification_verdicts (node_id, digest, verdict, observed_at)
VALUES ($1, $2, $3, $4);
`
	_, err := s.pool.Exec(ctx, sql, nodeID, digest, verdict, observedAt)
	if err != nil {
		return fmt.Errorf("store: save verdict: %w", err)
	}
	return nil
}

// RecentVerdicts returns the last limit verdicts recorded for nodeID, most
// recent first, for the admin status surface.
func (s *Store) RecentVerdicts(ctx context.Context, nodeID string, limit int) ([]VerdictRow, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	const sql = `
SELECT digest, verdict, observed_at FROM verification_verdicts
WHERE node_id = $1 ORDER BY observed_at DESC LIMIT $2;
`
	rows, err := s.pool.Query(ctx, sql, nodeID, limit)
	if err != nil {
		return nil, fmt.Errorf("store: recent verdicts: %w", err)
	}
	defer rows.Close()

	var out []VerdictRow
	for rows.Next() {
		var v VerdictRow
		if err := rows.Scan(&v.Digest, &v.Verdict, &v.ObservedAt); err != nil {
			return nil, fmt.Errorf("store: scan verdict row: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// VerdictRow is one row of verification history.
type VerdictRow struct {
	Digest     string    `json:"digest"`
	Verdict    string    `json:"verdict"`
	ObservedAt time.Time `json:"observedAt"`
}
