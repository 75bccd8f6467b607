package store

import (
	"context"
	"fmt"
)

// Field names carried by audit events and tracked by the reporting core.
const (
	FieldStatus     = "status"
	FieldResolution = "resolution"
)

// CategoryValue is one legal value of a tracked field.
type CategoryValue struct {
	Name    string
	Kind    string
	SortKey int
	Active  bool
}

// LegalValues returns the currently defined category values for a field,
// in canonical sortkey order. Retired-but-still-defined values (active=0)
// are included; values that were deleted outright are not, and surface
// through AuditValues instead.
func (s *Store) LegalValues(ctx context.Context, kind string) ([]CategoryValue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, kind, sortkey, active
		FROM categories
		WHERE kind = ?
		ORDER BY sortkey ASC, name ASC
	`, kind)
	if err != nil {
		return nil, fmt.Errorf("query legal values: %w", err)
	}
	defer rows.Close()

	var values []CategoryValue
	for rows.Next() {
		var v CategoryValue
		if err := rows.Scan(&v.Name, &v.Kind, &v.SortKey, &v.Active); err != nil {
			return nil, fmt.Errorf("scan legal value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate legal values: %w", err)
	}

	return values, nil
}

// AuditValues returns every non-empty value that appears in an audit
// event's added or removed slot for the given field, ordered by first
// appearance in the trail. The caller diffs this against LegalValues to
// discover categories that only exist historically.
func (s *Store) AuditValues(ctx context.Context, field string) ([]string, error) {
	// rowid stands in for insertion order; the audit trail is append-only.
	rows, err := s.db.QueryContext(ctx, `
		SELECT v FROM (
			SELECT added AS v, rowid AS r FROM audit_events
			WHERE field = ? AND added != ''
			UNION ALL
			SELECT removed AS v, rowid AS r FROM audit_events
			WHERE field = ? AND removed != ''
		)
		GROUP BY v
		ORDER BY MIN(r) ASC
	`, field, field)
	if err != nil {
		return nil, fmt.Errorf("query audit values: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan audit value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit values: %w", err)
	}

	return values, nil
}
