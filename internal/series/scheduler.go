package series

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hindsight-io/hindsight/internal/daynum"
	"github.com/hindsight-io/hindsight/internal/store"
)

// Scheduler selects the series due today, samples each through the query
// executor, and upserts one data point per series per effective date.
//
// Reads (series list, owner lookup) go to the replica handle; the
// delete+insert upsert goes to the primary.
type Scheduler struct {
	Reads    *store.Store
	Writes   *store.Store
	Executor QueryExecutor

	// Today overrides the scheduling day; zero means the current day.
	// It drives the due formula only, never the stored date label.
	Today daynum.Day
}

// Due reports whether a series fires on day d. Series with the same
// frequency are spread across calendar days by their id, so every weekly
// series does not fire on the same morning. Frequency 0 never fires.
func Due(d daynum.Day, seriesID int64, frequency int) bool {
	if frequency <= 0 {
		return false
	}
	return (int64(d)+seriesID)%int64(frequency) == 0
}

// RunDaily executes one scheduling pass. effective labels the stored data
// points (zero means today) and may be back-dated for corrections; the
// due formula always uses the actual current day.
//
// Per-series failures are local: a definition that no longer compiles is
// skipped silently, any other failure is logged, and the pass continues.
// Re-running the same effective date replaces points instead of
// accumulating them.
func (s *Scheduler) RunDaily(ctx context.Context, effective daynum.Day) error {
	today := s.Today
	if today == 0 {
		today = daynum.Today()
	}
	if effective == 0 {
		effective = today
	}
	date := effective.Stamp()

	list, err := s.Reads.ListSeries(ctx)
	if err != nil {
		return fmt.Errorf("run series scheduler: %w", err)
	}

	ran := 0
	for _, sr := range list {
		if !Due(today, sr.ID, sr.Frequency) {
			continue
		}
		if s.runOne(ctx, sr, date) {
			ran++
		}
	}

	slog.Info("series scheduler pass complete", "date", date, "series", len(list), "sampled", ran)
	return nil
}

func (s *Scheduler) runOne(ctx context.Context, sr store.Series, date string) bool {
	owner, err := s.Reads.LookupUser(ctx, sr.Owner)
	if err != nil {
		// Owner deleted since the series was saved: same stale-reference
		// treatment as a compile error.
		slog.Info("skipping series, owner not found", "series", sr.ID, "owner", sr.Owner)
		return false
	}

	ids, err := s.Executor.Execute(ctx, sr.Definition, owner)
	if IsCompileError(err) {
		slog.Info("skipping series, definition no longer compiles", "series", sr.ID, "error", err)
		return false
	}
	if err != nil {
		slog.Error("series query failed, continuing", "series", sr.ID, "error", err)
		return false
	}

	value := distinctCount(ids)
	if err := s.Writes.UpsertSeriesPoint(ctx, sr.ID, date, value); err != nil {
		slog.Error("series point upsert failed, continuing", "series", sr.ID, "error", err)
		return false
	}
	return true
}

// distinctCount counts unique entity IDs. A query's underlying join may
// legitimately return duplicate rows per entity; raw row count would
// overstate the sample.
func distinctCount(ids []int64) int {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}
