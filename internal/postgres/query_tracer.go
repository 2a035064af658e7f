package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stayquote/stayquote/internal/logger"
)

// SlowQueryThreshold is the duration past which a completed query is logged as a warning
const SlowQueryThreshold = 250 * time.Millisecond

// queryTrace times one statement and logs its outcome on done
type queryTrace struct {
	logger *logger.Logger
	query  string
	params any
	start  time.Time
	txID   string
}

func startTrace(logger *logger.Logger, query string, params any, txID string) *queryTrace {
	return &queryTrace{
		logger: logger,
		query:  query,
		params: params,
		start:  time.Now(),
		txID:   txID,
	}
}

// statement is the leading keyword of a query, e.g. SELECT or UPDATE
func statement(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

func (t *queryTrace) done(err error) {
	duration := time.Since(t.start)
	fields := []any{
		"statement", statement(t.query),
		"duration_ms", duration.Milliseconds(),
		"query", t.query,
		"params", fmt.Sprintf("%+v", t.params),
	}
	if t.txID != "" {
		fields = append(fields, "tx_id", t.txID)
	}

	switch {
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		fields = append(fields, "error", err.Error())
		t.logger.Errorw("database query failed", fields...)
	case duration >= SlowQueryThreshold:
		t.logger.Warnw("slow database query", fields...)
	default:
		t.logger.Debugw("database query completed", fields...)
	}
}

// TracedQuerier logs every statement run through the wrapped Querier
type TracedQuerier struct {
	Querier
	logger *logger.Logger
	txID   string
}

func NewTracedQuerier(q Querier, logger *logger.Logger, txID string) *TracedQuerier {
	return &TracedQuerier{
		Querier: q,
		logger:  logger,
		txID:    txID,
	}
}

func (tq *TracedQuerier) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	trace := startTrace(tq.logger, query, args, tq.txID)
	result, err := tq.Querier.ExecContext(ctx, query, args...)
	trace.done(err)
	return result, err
}

func (tq *TracedQuerier) NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error) {
	trace := startTrace(tq.logger, query, arg, tq.txID)
	result, err := tq.Querier.NamedExecContext(ctx, query, arg)
	trace.done(err)
	return result, err
}

func (tq *TracedQuerier) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	trace := startTrace(tq.logger, query, args, tq.txID)
	err := tq.Querier.GetContext(ctx, dest, query, args...)
	trace.done(err)
	return err
}

func (tq *TracedQuerier) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	trace := startTrace(tq.logger, query, args, tq.txID)
	err := tq.Querier.SelectContext(ctx, dest, query, args...)
	trace.done(err)
	return err
}
