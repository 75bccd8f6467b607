package report

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hindsight-io/hindsight/internal/replay"
	"github.com/hindsight-io/hindsight/internal/store"
	"github.com/hindsight-io/hindsight/internal/timeseries"
)

// activeEntity is one admitted entity with its replay cursors.
type activeEntity struct {
	status     *replay.Cursor
	resolution *replay.Cursor
}

// Regenerate rebuilds a product's entire time series from the audit
// trail, replacing the file unconditionally. Products with no entities
// are skipped without touching any file.
//
// The day loop runs from the earliest creation day + 1 through today. An
// entity joins the active set on the day its creation day equals day-2:
// the historical one-day admission lag. A change that occurs on day D is
// not reflected until day D+1 (start-of-day snapshots). Both behaviors
// are deliberate and must match the files produced by every prior run.
func (r *Reporter) Regenerate(ctx context.Context, product string) error {
	entities, err := r.Reads.LoadEntities(ctx, product)
	if err != nil {
		return fmt.Errorf("regenerate %q: %w", product, err)
	}
	if len(entities) == 0 {
		return nil
	}

	statusEvents, err := r.Reads.LoadAuditEvents(ctx, store.FieldStatus, product)
	if err != nil {
		return fmt.Errorf("regenerate %q: %w", product, err)
	}
	resolutionEvents, err := r.Reads.LoadAuditEvents(ctx, store.FieldResolution, product)
	if err != nil {
		return fmt.Errorf("regenerate %q: %w", product, err)
	}

	idx := r.buildColumnIndex()
	firstDay := entities[0].CreationDay
	lastDay := r.today()

	var (
		active   []activeEntity
		next     int // admission index into entities (creation-day order)
		rows     []timeseries.Row
		lastPct  = -1
		totalDay = int(lastDay - firstDay)
	)

	for day := firstDay + 1; day <= lastDay; day++ {
		for next < len(entities) && entities[next].CreationDay <= day-2 {
			e := entities[next]
			active = append(active, activeEntity{
				status:     replay.NewCursor(e.Status, statusEvents[e.ID]),
				resolution: replay.NewCursor(e.Resolution, resolutionEvents[e.ID]),
			})
			next++
		}

		counts := make([]int, idx.width)
		for _, a := range active {
			if v, known := a.status.ValueAt(day); known {
				if col, ok := idx.status[r.Registry.Canonical(store.FieldStatus, v)]; ok {
					counts[col]++
				}
			}
			if v, known := a.resolution.ValueAt(day); known {
				if col, ok := idx.resolution[r.Registry.Canonical(store.FieldResolution, v)]; ok {
					counts[col]++
				}
			}
		}

		rows = append(rows, timeseries.Row{Date: day.Stamp(), Counts: formatCounts(counts)})

		if totalDay > 0 {
			if pct := int(day-firstDay) * 100 / totalDay; pct != lastPct {
				r.progress(product, pct)
				lastPct = pct
			}
		}
	}

	schema := timeseries.Schema(r.Registry.Columns())
	if err := r.Files.Rewrite(product, schema, rows); err != nil {
		return storageErr(product, "rewrite", err)
	}
	return nil
}

func formatCounts(counts []int) []string {
	out := make([]string, len(counts))
	for i, n := range counts {
		out[i] = strconv.Itoa(n)
	}
	return out
}
