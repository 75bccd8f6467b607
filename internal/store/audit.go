package store

import (
	"context"
	"fmt"

	"github.com/hindsight-io/hindsight/internal/daynum"
)

// AuditEvent is one immutable change record from the append-only trail.
// Added/Removed hold the field value after/before the change; either may
// be empty when a value was newly set or cleared.
type AuditEvent struct {
	EntityID int64
	Field    string
	Added    string
	Removed  string
	Day      daynum.Day
	Seq      int64
}

// LoadAuditEvents bulk-loads the full audit trail for one field into an
// entity -> sorted-event-list map, filtered to a product unless product is
// AllProducts. Regeneration replays many days against the same events, so
// one up-front query replaces a per-day, per-entity query storm.
//
// Events within an entity are ordered by day_number then seq, which is the
// order replay cursors require.
func (s *Store) LoadAuditEvents(ctx context.Context, field, product string) (map[int64][]AuditEvent, error) {
	query := `
		SELECT a.entity_id, a.field, a.added, a.removed, a.day_number, a.seq
		FROM audit_events a
		JOIN entities e ON e.id = a.entity_id
		WHERE a.field = ?
		ORDER BY a.entity_id ASC, a.day_number ASC, a.seq ASC
	`
	args := []any{field}
	if product != AllProducts {
		query = `
			SELECT a.entity_id, a.field, a.added, a.removed, a.day_number, a.seq
			FROM audit_events a
			JOIN entities e ON e.id = a.entity_id
			WHERE a.field = ? AND e.product = ?
			ORDER BY a.entity_id ASC, a.day_number ASC, a.seq ASC
		`
		args = append(args, product)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	events := make(map[int64][]AuditEvent)
	for rows.Next() {
		var ev AuditEvent
		if err := rows.Scan(&ev.EntityID, &ev.Field, &ev.Added, &ev.Removed, &ev.Day, &ev.Seq); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events[ev.EntityID] = append(events[ev.EntityID], ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}

	return events, nil
}
