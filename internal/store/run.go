package store

import (
	"context"
	stdsql "database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
)

// runRepo implements RunRepo using the ent SQL driver.
type runRepo struct {
	drv *sql.Driver
}

var runSelectColumns = []string{
	"id", "started_at", "updated_at", "source_name", "language", "audience",
	"stage", "composite", "state",
}

func (r *runRepo) Save(ctx context.Context, run *Run) error {
	if run.ID == "" {
		return fmt.Errorf("save run: empty id")
	}
	now := time.Now().UTC()
	if run.StartedAt.IsZero() {
		run.StartedAt = now
	}
	run.UpdatedAt = now

	var composite stdsql.NullFloat64
	if run.Composite != nil {
		composite = stdsql.NullFloat64{Float64: *run.Composite, Valid: true}
	}

	query, args := sql.Dialect(dialect.SQLite).
		Insert(runsTable).
		Columns(runSelectColumns...).
		Values(
			run.ID,
			run.StartedAt.UTC(),
			run.UpdatedAt,
			run.SourceName,
			run.Language,
			run.Audience,
			run.Stage,
			composite,
			string(run.State),
		).
		OnConflict(
			sql.ConflictColumns("id"),
			sql.ResolveWith(func(u *sql.UpdateSet) {
				for _, c := range runSelectColumns[2:] {
					u.SetExcluded(c)
				}
			}),
		).
		Query()

	var res stdsql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

func (r *runRepo) Get(ctx context.Context, id string) (*Run, error) {
	query, args := sql.Dialect(dialect.SQLite).
		Select(runSelectColumns...).
		From(sql.Table(runsTable)).
		Where(sql.EQ("id", id)).
		Limit(1).
		Query()

	rows := &sql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanRun(rows)
}

func (r *runRepo) List(ctx context.Context, limit int) ([]Run, error) {
	sel := sql.Dialect(dialect.SQLite).
		Select(runSelectColumns...).
		From(sql.Table(runsTable)).
		OrderBy(sql.Desc("updated_at"))
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	rows := &sql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func scanRun(rows *sql.Rows) (*Run, error) {
	var (
		run       Run
		composite stdsql.NullFloat64
		state     string
	)
	err := rows.Scan(
		&run.ID,
		&run.StartedAt,
		&run.UpdatedAt,
		&run.SourceName,
		&run.Language,
		&run.Audience,
		&run.Stage,
		&composite,
		&state,
	)
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	if composite.Valid {
		v := composite.Float64
		run.Composite = &v
	}
	run.State = []byte(state)
	return &run, nil
}
