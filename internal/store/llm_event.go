package store

import (
	"context"
	stdsql "database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo backed by the ent SQL driver and the
// global sequence counter.
type eventRepo struct {
	drv *sql.Driver
	seq *sequenceCounter
}

var llmEventSelectColumns = []string{
	"id", "sequence", "timestamp", "run_id", "provider", "model", "purpose",
	"input_tokens", "output_tokens", "latency_ms", "success", "error_message",
	"request_body", "response_body",
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := sql.Dialect(dialect.SQLite).
		Insert(llmEventsTable).
		Columns(llmEventSelectColumns[1:]...).
		Values(
			seqNum,
			time.Now().UTC(),
			data.RunID,
			data.Provider,
			data.Model,
			data.Purpose,
			data.InputTokens,
			data.OutputTokens,
			data.LatencyMs,
			data.Success,
			data.ErrorMessage,
			data.RequestBody,
			data.ResponseBody,
		).
		Query()

	var res stdsql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error) {
	sel := sql.Dialect(dialect.SQLite).
		Select(llmEventSelectColumns...).
		From(sql.Table(llmEventsTable)).
		OrderBy(sql.Desc("sequence"))

	if opts.After > 0 {
		sel.Where(sql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(sql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(sql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		sel.Where(sql.LTE("timestamp", opts.To.UTC()))
	}
	if opts.RunID != "" {
		sel.Where(sql.EQ("run_id", opts.RunID))
	}
	if opts.Purpose != "" {
		sel.Where(sql.EQ("purpose", opts.Purpose))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows := &sql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var events []LLMEvent
	for rows.Next() {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error) {
	query, args := sql.Dialect(dialect.SQLite).
		Select(llmEventSelectColumns...).
		From(sql.Table(llmEventsTable)).
		Where(sql.EQ("id", id)).
		Limit(1).
		Query()

	rows := &sql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("get LLM event: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanLLMEvent(rows)
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error) {
	query, args := sql.Dialect(dialect.SQLite).
		Select(
			"purpose",
			sql.As(sql.Count("*"), "calls"),
			sql.As(sql.Sum("input_tokens"), "input_total"),
			sql.As(sql.Sum("output_tokens"), "output_total"),
			sql.As(sql.Avg("latency_ms"), "avg_latency"),
		).
		From(sql.Table(llmEventsTable)).
		GroupBy("purpose").
		OrderBy(sql.Desc("calls")).
		Query()

	rows := &sql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("usage by purpose: %w", err)
	}
	defer rows.Close()

	var out []PurposeUsage
	for rows.Next() {
		var (
			u   PurposeUsage
			avg stdsql.NullFloat64
		)
		if err := rows.Scan(&u.Purpose, &u.Calls, &u.InputTokens, &u.OutputTokens, &avg); err != nil {
			return nil, fmt.Errorf("scan purpose usage: %w", err)
		}
		u.AvgLatencyMs = int64(avg.Float64)
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]ModelUsage, error) {
	query, args := sql.Dialect(dialect.SQLite).
		Select(
			"model",
			sql.As(sql.Count("*"), "calls"),
			sql.As(sql.Sum("input_tokens"), "input_total"),
			sql.As(sql.Sum("output_tokens"), "output_total"),
		).
		From(sql.Table(llmEventsTable)).
		GroupBy("model").
		OrderBy(sql.Desc("calls")).
		Query()

	rows := &sql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("usage by model: %w", err)
	}
	defer rows.Close()

	var out []ModelUsage
	for rows.Next() {
		var u ModelUsage
		if err := rows.Scan(&u.Model, &u.Calls, &u.InputTokens, &u.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan model usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanLLMEvent(rows *sql.Rows) (*LLMEvent, error) {
	var e LLMEvent
	err := rows.Scan(
		&e.ID,
		&e.Sequence,
		&e.Timestamp,
		&e.RunID,
		&e.Provider,
		&e.Model,
		&e.Purpose,
		&e.InputTokens,
		&e.OutputTokens,
		&e.LatencyMs,
		&e.Success,
		&e.ErrorMessage,
		&e.RequestBody,
		&e.ResponseBody,
	)
	if err != nil {
		return nil, fmt.Errorf("scan LLM event: %w", err)
	}
	return &e, nil
}
