// Package category computes the full historical category domain for the
// tracked fields: every value a field has ever held, including values that
// have since been retired or renamed.
package category

import (
	"context"
	"fmt"

	"github.com/hindsight-io/hindsight/internal/store"
)

// Source is the slice of the store the registry reads.
type Source interface {
	LegalValues(ctx context.Context, kind string) ([]store.CategoryValue, error)
	AuditValues(ctx context.Context, field string) ([]string, error)
}

// Registry is the run-scoped, read-only category domain. It is computed
// once per invocation and shared by every product worker.
type Registry struct {
	domains map[string][]string
	renames Renames
}

// Build computes the domain for both tracked fields.
//
// Each domain starts from the current legal values in canonical order,
// followed by values that appear only in historical audit records, in
// first-seen order. Renames are applied before the membership check, so a
// value that was merely renamed does not surface as a phantom historical
// column. Entities that transitioned through a now-deleted value remain
// countable in reconstructions.
func Build(ctx context.Context, src Source, renames Renames) (*Registry, error) {
	if renames == nil {
		renames = Renames{}
	}
	r := &Registry{
		domains: make(map[string][]string),
		renames: renames,
	}

	for _, field := range []string{store.FieldStatus, store.FieldResolution} {
		domain, err := buildDomain(ctx, src, renames, field)
		if err != nil {
			return nil, fmt.Errorf("build %s domain: %w", field, err)
		}
		r.domains[field] = domain
	}

	return r, nil
}

func buildDomain(ctx context.Context, src Source, renames Renames, field string) ([]string, error) {
	legal, err := src.LegalValues(ctx, field)
	if err != nil {
		return nil, err
	}

	domain := make([]string, 0, len(legal))
	seen := make(map[string]bool, len(legal))
	for _, v := range legal {
		if v.Name == "" {
			// The empty resolution (entity not yet resolved) is never a column.
			continue
		}
		if !seen[v.Name] {
			domain = append(domain, v.Name)
			seen[v.Name] = true
		}
	}

	audit, err := src.AuditValues(ctx, field)
	if err != nil {
		return nil, err
	}
	for _, v := range audit {
		name := renames.Canonical(field, v)
		if name == "" || seen[name] {
			continue
		}
		domain = append(domain, name)
		seen[name] = true
	}

	return domain, nil
}

// Domain returns the ordered category names for a field. The returned
// slice is shared; callers must not mutate it.
func (r *Registry) Domain(field string) []string {
	return r.domains[field]
}

// Canonical maps a possibly-renamed historical value to its current name.
// Unmapped values pass through unchanged.
func (r *Registry) Canonical(field, name string) string {
	return r.renames.Canonical(field, name)
}

// Columns returns the canonical time-series schema for the registry:
// statuses in canonical order, then resolutions in canonical order. The
// implicit DATE column is not included.
func (r *Registry) Columns() []string {
	statuses := r.domains[store.FieldStatus]
	resolutions := r.domains[store.FieldResolution]
	cols := make([]string, 0, len(statuses)+len(resolutions))
	cols = append(cols, statuses...)
	cols = append(cols, resolutions...)
	return cols
}

// StatusCount returns how many leading Columns entries are statuses.
// The regeneration engine uses it to split a row's counters by field.
func (r *Registry) StatusCount() int {
	return len(r.domains[store.FieldStatus])
}
