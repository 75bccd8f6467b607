// Package report drives the two per-product collection modes: full
// historical regeneration from the audit trail, and the daily incremental
// append. Exactly one mode runs per invocation.
package report

import (
	"log/slog"

	"github.com/hindsight-io/hindsight/internal/category"
	"github.com/hindsight-io/hindsight/internal/daynum"
	"github.com/hindsight-io/hindsight/internal/store"
	"github.com/hindsight-io/hindsight/internal/timeseries"
)

// Reporter computes daily snapshot rows for one product at a time.
//
// Reads go through the replica store handle; the reporter never writes to
// the database, only to time-series files. Registry is computed once per
// run and shared read-only across product workers.
type Reporter struct {
	Reads    *store.Store
	Files    *timeseries.Store
	Registry *category.Registry

	// Today overrides the run's last day; zero means the current day.
	Today daynum.Day

	// Progress observes regeneration percentage per product. Nil gets a
	// throttled slog default.
	Progress func(product string, percent int)
}

func (r *Reporter) today() daynum.Day {
	if r.Today != 0 {
		return r.Today
	}
	return daynum.Today()
}

func (r *Reporter) progress(product string, percent int) {
	if r.Progress != nil {
		r.Progress(product, percent)
		return
	}
	slog.Debug("regenerating", "product", product, "percent", percent)
}

// columnIndex maps each canonical column to its position in a row,
// split by field so a status and a resolution sharing a name cannot
// collide.
type columnIndex struct {
	status     map[string]int
	resolution map[string]int
	width      int
}

func (r *Reporter) buildColumnIndex() columnIndex {
	cols := r.Registry.Columns()
	boundary := r.Registry.StatusCount()

	idx := columnIndex{
		status:     make(map[string]int, boundary),
		resolution: make(map[string]int, len(cols)-boundary),
		width:      len(cols),
	}
	for i, name := range cols {
		if i < boundary {
			idx.status[name] = i
		} else {
			idx.resolution[name] = i
		}
	}
	return idx
}
