package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hindsight-io/hindsight/internal/daynum"
)

// createTestStore creates a new on-disk store in a temp dir for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedProduct(t *testing.T, s *Store, name string) {
	t.Helper()
	if _, err := s.db.Exec(`INSERT OR IGNORE INTO products (name) VALUES (?)`, name); err != nil {
		t.Fatalf("seed product: %v", err)
	}
}

func seedUser(t *testing.T, s *Store, login string, admin bool) {
	t.Helper()
	if _, err := s.db.Exec(`INSERT OR IGNORE INTO users (login, is_admin) VALUES (?, ?)`, login, admin); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func seedCategory(t *testing.T, s *Store, name, kind string, sortkey int) {
	t.Helper()
	if _, err := s.db.Exec(`
		INSERT INTO categories (name, kind, sortkey, active) VALUES (?, ?, ?, 1)
	`, name, kind, sortkey); err != nil {
		t.Fatalf("seed category: %v", err)
	}
}

func seedEntity(t *testing.T, s *Store, e Entity) {
	t.Helper()
	seedProduct(t, s, e.Product)
	if _, err := s.db.Exec(`
		INSERT INTO entities (id, product, creation_day, status, resolution, restricted)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.ID, e.Product, e.CreationDay, e.Status, e.Resolution, e.Restricted); err != nil {
		t.Fatalf("seed entity: %v", err)
	}
}

func seedAuditEvent(t *testing.T, s *Store, ev AuditEvent) {
	t.Helper()
	if _, err := s.db.Exec(`
		INSERT INTO audit_events (entity_id, field, added, removed, day_number, seq)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ev.EntityID, ev.Field, ev.Added, ev.Removed, ev.Day, ev.Seq); err != nil {
		t.Fatalf("seed audit event: %v", err)
	}
}

func seedSeries(t *testing.T, s *Store, sr Series) {
	t.Helper()
	seedUser(t, s, sr.Owner, false)
	if _, err := s.db.Exec(`
		INSERT INTO series (id, definition, frequency, owner) VALUES (?, ?, ?, ?)
	`, sr.ID, sr.Definition, sr.Frequency, sr.Owner); err != nil {
		t.Fatalf("seed series: %v", err)
	}
}

var testCtx = context.Background()

// day is shorthand for building daynum.Day literals in seeds.
func day(n int) daynum.Day { return daynum.Day(n) }
