package report

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/hindsight-io/hindsight/internal/store"
	"github.com/hindsight-io/hindsight/internal/timeseries"
)

// CollectToday computes today's row from current entity state (no replay)
// and merges it into the product's file.
//
// When the on-disk schema is byte-identical to the canonical domain the
// new row is a single appended line, leaving the existing file a strict
// prefix. Any schema drift (categories added, removed, or reordered since
// the last run) triggers a full rewrite: every old row is re-emitted under
// the canonical schema, with categories the old schema never tracked left
// blank rather than zero.
func (r *Reporter) CollectToday(ctx context.Context, product string) error {
	canonical := timeseries.Schema(r.Registry.Columns())

	oldSchema, oldRows, found, err := r.Files.Parse(product)
	if err != nil {
		return storageErr(product, "parse", err)
	}

	row, err := r.todayRow(ctx, product, canonical)
	if err != nil {
		return fmt.Errorf("collect %q: %w", product, err)
	}

	if found && oldSchema.Equal(canonical) {
		if err := r.Files.Append(product, row); err != nil {
			return storageErr(product, "append", err)
		}
		return nil
	}

	var rows []timeseries.Row
	if found {
		slog.Info("schema drift detected, rewriting time series",
			"product", product, "old_columns", len(oldSchema), "new_columns", len(canonical))
		rows = reformat(oldSchema, canonical, oldRows)
	}
	rows = append(rows, row)

	if err := r.Files.Rewrite(product, canonical, rows); err != nil {
		return storageErr(product, "rewrite", err)
	}
	return nil
}

// todayRow runs one count query per canonical category against current
// entity state.
func (r *Reporter) todayRow(ctx context.Context, product string, canonical timeseries.Schema) (timeseries.Row, error) {
	boundary := r.Registry.StatusCount()
	counts := make([]string, len(canonical))
	for i, col := range canonical {
		field := store.FieldStatus
		if i >= boundary {
			field = store.FieldResolution
		}
		n, err := r.Reads.CountByCategory(ctx, field, col, product)
		if err != nil {
			return timeseries.Row{}, err
		}
		counts[i] = strconv.Itoa(n)
	}
	return timeseries.Row{Date: r.today().Stamp(), Counts: counts}, nil
}

// reformat re-emits rows recorded under an old schema in canonical column
// order. Columns the old schema lacked become blanks.
func reformat(old, canonical timeseries.Schema, rows []timeseries.Row) []timeseries.Row {
	out := make([]timeseries.Row, len(rows))
	for i, row := range rows {
		counts := make([]string, len(canonical))
		for j, col := range canonical {
			counts[j] = row.Get(old, col)
		}
		out[i] = timeseries.Row{Date: row.Date, Counts: counts}
	}
	return out
}
