// Package replay reconstructs past field values from an entity's current
// state and its ordered audit-event history.
//
// A snapshot for day D is the state as of the start of D: a change that
// occurs on day D has not yet been absorbed into that day's snapshot.
package replay

import (
	"github.com/hindsight-io/hindsight/internal/daynum"
	"github.com/hindsight-io/hindsight/internal/store"
)

// Cursor walks one entity's audit events for a single field, answering
// point-in-time value queries.
//
// ValueAt must be called with monotonically non-decreasing target days:
// the cursor only ever moves forward through the event list, which bounds
// a full regeneration run to O(events + entity-days) instead of rescanning
// the history for every day. Events must be sorted ascending by
// (day, seq), which is how store.LoadAuditEvents returns them.
type Cursor struct {
	current string
	events  []store.AuditEvent
	idx     int
}

// NewCursor creates a cursor over events with the entity's current value
// as the fallthrough once the history is exhausted.
func NewCursor(current string, events []store.AuditEvent) *Cursor {
	return &Cursor{current: current, events: events}
}

// ValueAt returns the field value in effect at the start of target.
//
// The first event with day >= target carries the answer in its removed
// slot: the value that was active immediately before that change fired.
// If every change happened strictly before target, the current value is
// in effect. known is false when the value cannot be attributed to any
// category (the event's removed slot is empty because the value was newly
// set, or the current value itself is empty).
func (c *Cursor) ValueAt(target daynum.Day) (value string, known bool) {
	for c.idx < len(c.events) && c.events[c.idx].Day < target {
		c.idx++
	}

	if c.idx < len(c.events) {
		removed := c.events[c.idx].Removed
		return removed, removed != ""
	}

	return c.current, c.current != ""
}
