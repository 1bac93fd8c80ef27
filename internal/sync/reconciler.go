package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/launchdir/directory-service/internal/clock"
	"github.com/launchdir/directory-service/internal/metrics"
)

// Source yields rows from the primary relational store.
type Source interface {
	FetchRowsUpdatedSince(ctx context.Context, table string, fields []string, since time.Time) ([]map[string]any, error)
}

// Destination is the spreadsheet-like mirror keyed lookups and writes go to.
type Destination interface {
	FindByKey(ctx context.Context, table, keyField, value string) (string, bool, error)
	Create(ctx context.Context, table string, fields map[string]any) error
	Update(ctx context.Context, table, recordID string, fields map[string]any) error
}

// Reconciler copies changed source rows into the destination, keyed by each
// mapping's identifying field. All writes are sequential: no parallel
// existence checks, no duplicate-row races.
type Reconciler struct {
	source    Source
	dest      Destination
	clock     clock.Clock
	batchSize int
	logger    *zap.Logger
}

// NewReconciler builds a Reconciler. batchSize is clamped to the destination
// API's per-call limit of 10.
func NewReconciler(source Source, dest Destination, clk clock.Clock, batchSize int, logger *zap.Logger) *Reconciler {
	if batchSize <= 0 || batchSize > 10 {
		batchSize = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		source:    source,
		dest:      dest,
		clock:     clk,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Reconcile runs one pass for a mapping. The cursor is threaded through the
// call: the advanced value is returned only when the whole window succeeded;
// any failure returns the prior cursor unchanged so the window is retried
// next cycle. Reprocessing is idempotent because writes are keyed.
func (r *Reconciler) Reconcile(ctx context.Context, m Mapping, cursor time.Time) (time.Time, error) {
	started := r.clock.Now()

	rows, err := r.source.FetchRowsUpdatedSince(ctx, m.SourceTable, m.Fields, cursor)
	if err != nil {
		return cursor, fmt.Errorf("fetch %s: %w", m.SourceTable, err)
	}

	for start := 0; start < len(rows); start += r.batchSize {
		end := start + r.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := r.reconcileBatch(ctx, m, rows[start:end]); err != nil {
			// Rows already written in this batch stay committed; the
			// unadvanced cursor causes the window to be reprocessed.
			return cursor, err
		}
	}

	r.logger.Info("reconciliation pass complete",
		zap.String("mapping", m.Name),
		zap.Int("rows", len(rows)),
		zap.Duration("elapsed", r.clock.Now().Sub(started)))
	return started, nil
}

func (r *Reconciler) reconcileBatch(ctx context.Context, m Mapping, rows []map[string]any) error {
	for _, row := range rows {
		keyValue := stringifyValue(row[m.KeyField])
		if keyValue == "" {
			r.logger.Warn("skipping row without key field",
				zap.String("mapping", m.Name), zap.String("key_field", m.KeyField))
			continue
		}

		fields := serializeFields(row)
		recordID, found, err := r.dest.FindByKey(ctx, m.DestTable, m.KeyField, keyValue)
		if err != nil {
			return fmt.Errorf("lookup %s=%s in %s: %w", m.KeyField, keyValue, m.DestTable, err)
		}
		if found {
			if err := r.dest.Update(ctx, m.DestTable, recordID, fields); err != nil {
				return fmt.Errorf("update %s=%s in %s: %w", m.KeyField, keyValue, m.DestTable, err)
			}
			metrics.IncSyncRows(m.Name, "update")
		} else {
			if err := r.dest.Create(ctx, m.DestTable, fields); err != nil {
				return fmt.Errorf("create %s=%s in %s: %w", m.KeyField, keyValue, m.DestTable, err)
			}
			metrics.IncSyncRows(m.Name, "create")
		}
	}
	return nil
}

// serializeFields flattens sequence-valued fields to strings because the
// destination store has no native sequence type.
func serializeFields(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		switch val := v.(type) {
		case []string:
			out[k] = strings.Join(val, ", ")
		case []any:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				parts = append(parts, stringifyValue(item))
			}
			out[k] = strings.Join(parts, ", ")
		case time.Time:
			out[k] = val.UTC().Format(time.RFC3339)
		default:
			out[k] = v
		}
	}
	return out
}

func stringifyValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
