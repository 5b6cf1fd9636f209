package store

import (
	"context"
	stdsql "database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
)

// artifactRepo implements ArtifactRepo. Artifacts share the global sequence
// with LLM events so a run's timeline can be merged in order.
type artifactRepo struct {
	drv *sql.Driver
	seq *sequenceCounter
}

func (r *artifactRepo) Record(ctx context.Context, runID, kind, path string) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := sql.Dialect(dialect.SQLite).
		Insert(artifactsTable).
		Columns("sequence", "timestamp", "run_id", "kind", "path").
		Values(seqNum, time.Now().UTC(), runID, kind, path).
		Query()

	var res stdsql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("record artifact: %w", err)
	}
	return nil
}

func (r *artifactRepo) ForRun(ctx context.Context, runID string) ([]Artifact, error) {
	query, args := sql.Dialect(dialect.SQLite).
		Select("id", "sequence", "timestamp", "run_id", "kind", "path").
		From(sql.Table(artifactsTable)).
		Where(sql.EQ("run_id", runID)).
		OrderBy("sequence").
		Query()

	rows := &sql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	var out []Artifact
	for rows.Next() {
		var a Artifact
		if err := rows.Scan(&a.ID, &a.Sequence, &a.Timestamp, &a.RunID, &a.Kind, &a.Path); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
