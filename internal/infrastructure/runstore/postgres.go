package runstore

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/execution-hub/witnessrep/internal/domain/reputation"
)

// PostgresSnapshots persists reputation.Map snapshots as a thin repository
// over a *pgxpool.Pool: one Exec/Query per row, no ORM. It is an enrichment
// on top of runstore's file-based artifacts, useful when a long sweep's
// history needs to be queried rather than re-parsed from disk.
type PostgresSnapshots struct {
	pool *pgxpool.Pool
}

// NewPostgresSnapshots builds a PostgresSnapshots repository over pool.
func NewPostgresSnapshots(pool *pgxpool.Pool) *PostgresSnapshots {
	return &PostgresSnapshots{pool: pool}
}

// SaveStep persists one sweep step's reputation map entries, tagged by
// runID and stepIndex.
func (s *PostgresSnapshots) SaveStep(ctx context.Context, runID string, stepIndex int, m *reputation.Map) error {
	for key, entry := range m.Entries() {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO reputation_snapshots (run_id, step_index, subject_key, sum, count)
			VALUES ($1, $2, $3, $4, $5)
		`, runID, stepIndex, key, entry.Sum, entry.Count)
		if err != nil {
			return err
		}
	}
	return nil
}

// LoadStep reads back one sweep step's reputation map entries.
func (s *PostgresSnapshots) LoadStep(ctx context.Context, runID string, stepIndex int) (map[string]reputation.Entry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT subject_key, sum, count FROM reputation_snapshots
		WHERE run_id=$1 AND step_index=$2
	`, runID, stepIndex)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]reputation.Entry)
	for rows.Next() {
		var key string
		var entry reputation.Entry
		if err := rows.Scan(&key, &entry.Sum, &entry.Count); err != nil {
			return nil, err
		}
		out[key] = entry
	}
	return out, rows.Err()
}
