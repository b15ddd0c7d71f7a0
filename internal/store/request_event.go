package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo on the request_events table.
type eventRepo struct {
	db *sql.DB
}

var requestFields = []string{
	"id", "timestamp", "kind", "endpoint", "model", "purpose", "run_id",
	"status", "input_tokens", "output_tokens", "latency_ms", "success",
	"error_message", "request_body", "response_body",
}

func (r *eventRepo) AppendRequest(ctx context.Context, data RequestEventData) error {
	query, args := builder().
		Insert(requestTable.Name).
		Columns(requestFields[1:]...).
		Values(
			time.Now().UTC(), data.Kind, data.Endpoint, data.Model, data.Purpose, data.RunID,
			data.Status, data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success,
			data.ErrorMessage, data.RequestBody, data.ResponseBody,
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryRequests(ctx context.Context, opts QueryOpts) ([]RequestEvent, error) {
	sel := builder().
		Select(requestFields...).
		From(entsql.Table(requestTable.Name))

	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("id", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("id", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", opts.To.UTC()))
	}
	if opts.Kind != "" {
		preds = append(preds, entsql.EQ("kind", opts.Kind))
	}
	if opts.Purpose != "" {
		preds = append(preds, entsql.EQ("purpose", opts.Purpose))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy(entsql.Desc("id"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query request events: %w", err)
	}
	defer rows.Close()

	var out []RequestEvent
	for rows.Next() {
		e, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *eventRepo) GetRequest(ctx context.Context, id int64) (*RequestEvent, error) {
	query, args := builder().
		Select(requestFields...).
		From(entsql.Table(requestTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()

	e, err := scanRequest(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepo) UsageByPurpose(ctx context.Context) ([]UsageSummary, error) {
	out, err := r.usageBy(ctx, "purpose")
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Purpose, out[i].Model = out[i].Model, ""
	}
	return out, nil
}

func (r *eventRepo) UsageByModel(ctx context.Context) ([]UsageSummary, error) {
	return r.usageBy(ctx, "model")
}

// usageBy groups by column; the group value is returned in Model.
func (r *eventRepo) usageBy(ctx context.Context, column string) ([]UsageSummary, error) {
	query, args := builder().
		Select(
			column,
			entsql.Count("*"),
			"COALESCE(SUM(input_tokens), 0)",
			"COALESCE(SUM(output_tokens), 0)",
			"CAST(COALESCE(AVG(latency_ms), 0) AS INTEGER)",
			"COALESCE(SUM(CASE WHEN success THEN 0 ELSE 1 END), 0)",
		).
		From(entsql.Table(requestTable.Name)).
		GroupBy(column).
		OrderBy(entsql.Asc(column)).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage by %s: %w", column, err)
	}
	defer rows.Close()

	var out []UsageSummary
	for rows.Next() {
		var u UsageSummary
		if err := rows.Scan(&u.Model, &u.Calls, &u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs, &u.Failures); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*RequestEvent, error) {
	var e RequestEvent
	err := row.Scan(
		&e.ID, &e.Timestamp, &e.Kind, &e.Endpoint, &e.Model, &e.Purpose, &e.RunID,
		&e.Status, &e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success,
		&e.ErrorMessage, &e.RequestBody, &e.ResponseBody,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
