package category

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hindsight-io/hindsight/internal/store"
)

// fakeSource serves canned legal and audit values.
type fakeSource struct {
	legal map[string][]string
	audit map[string][]string
}

func (f *fakeSource) LegalValues(_ context.Context, kind string) ([]store.CategoryValue, error) {
	var out []store.CategoryValue
	for i, name := range f.legal[kind] {
		out = append(out, store.CategoryValue{Name: name, Kind: kind, SortKey: i, Active: true})
	}
	return out, nil
}

func (f *fakeSource) AuditValues(_ context.Context, field string) ([]string, error) {
	return f.audit[field], nil
}

func TestBuild_LegalValuesOnly(t *testing.T) {
	src := &fakeSource{
		legal: map[string][]string{
			store.FieldStatus:     {"NEW", "ASSIGNED", "RESOLVED"},
			store.FieldResolution: {"FIXED", "WONTFIX"},
		},
	}

	r, err := Build(context.Background(), src, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"NEW", "ASSIGNED", "RESOLVED"}, r.Domain(store.FieldStatus))
	assert.Equal(t, []string{"FIXED", "WONTFIX"}, r.Domain(store.FieldResolution))
}

func TestBuild_AppendsHistoricalValues(t *testing.T) {
	src := &fakeSource{
		legal: map[string][]string{
			store.FieldStatus: {"NEW", "RESOLVED"},
		},
		audit: map[string][]string{
			// VERIFIED and TRIAGED were deleted from the legal list but
			// survive in the trail; NEW is legal and must not duplicate.
			store.FieldStatus: {"VERIFIED", "NEW", "TRIAGED"},
		},
	}

	r, err := Build(context.Background(), src, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"NEW", "RESOLVED", "VERIFIED", "TRIAGED"}, r.Domain(store.FieldStatus))
}

func TestBuild_AppliesRenames(t *testing.T) {
	src := &fakeSource{
		legal: map[string][]string{
			store.FieldStatus: {"NEW", "ASSIGNED"},
		},
		audit: map[string][]string{
			// TRIAGED was renamed to ASSIGNED: not a phantom column.
			store.FieldStatus: {"TRIAGED", "OBSOLETE"},
		},
	}
	renames := Renames{
		store.FieldStatus: {"TRIAGED": "ASSIGNED"},
	}

	r, err := Build(context.Background(), src, renames)
	require.NoError(t, err)
	assert.Equal(t, []string{"NEW", "ASSIGNED", "OBSOLETE"}, r.Domain(store.FieldStatus))
	assert.Equal(t, "ASSIGNED", r.Canonical(store.FieldStatus, "TRIAGED"))
	assert.Equal(t, "OBSOLETE", r.Canonical(store.FieldStatus, "OBSOLETE"))
}

func TestBuild_ExcludesEmptyResolution(t *testing.T) {
	src := &fakeSource{
		legal: map[string][]string{
			store.FieldResolution: {"", "FIXED"},
		},
	}

	r, err := Build(context.Background(), src, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"FIXED"}, r.Domain(store.FieldResolution))
}

func TestColumns_StatusesThenResolutions(t *testing.T) {
	src := &fakeSource{
		legal: map[string][]string{
			store.FieldStatus:     {"NEW", "RESOLVED"},
			store.FieldResolution: {"FIXED"},
		},
	}

	r, err := Build(context.Background(), src, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"NEW", "RESOLVED", "FIXED"}, r.Columns())
	assert.Equal(t, 2, r.StatusCount())
}
