package category

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRenames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "renames.yaml")
	content := []byte("status:\n  TRIAGED: ASSIGNED\nresolution:\n  LATER: WONTFIX\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	r, err := LoadRenames(path)
	require.NoError(t, err)
	assert.Equal(t, "ASSIGNED", r.Canonical("status", "TRIAGED"))
	assert.Equal(t, "WONTFIX", r.Canonical("resolution", "LATER"))
	assert.Equal(t, "NEW", r.Canonical("status", "NEW"))
}

func TestLoadRenames_MissingFile(t *testing.T) {
	r, err := LoadRenames(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, r)
}

func TestLoadRenames_EmptyPath(t *testing.T) {
	r, err := LoadRenames("")
	require.NoError(t, err)
	assert.Empty(t, r)
}

func TestLoadRenames_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "renames.yaml")
	require.NoError(t, os.WriteFile(path, []byte("status: [not, a, map]"), 0o644))

	_, err := LoadRenames(path)
	assert.Error(t, err)
}
