package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hindsight-io/hindsight/internal/daynum"
)

// AllProducts is the pseudo-product selecting every entity regardless of
// product. Its time-series file sits alongside the per-product files.
const AllProducts = "-All-"

// Entity is the current state of one tracked entity.
type Entity struct {
	ID          int64
	Product     string
	CreationDay daynum.Day
	Status      string
	Resolution  string
	Restricted  bool
}

// LoadEntities returns current entity state for a product (or every
// product for AllProducts), ordered by creation day then id. Regeneration
// relies on this order to admit entities into the active set with a single
// forward index.
func (s *Store) LoadEntities(ctx context.Context, product string) ([]Entity, error) {
	query := `
		SELECT id, product, creation_day, status, resolution, restricted
		FROM entities
		ORDER BY creation_day ASC, id ASC
	`
	args := []any{}
	if product != AllProducts {
		query = `
			SELECT id, product, creation_day, status, resolution, restricted
			FROM entities
			WHERE product = ?
			ORDER BY creation_day ASC, id ASC
		`
		args = append(args, product)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entities: %w", err)
	}
	defer rows.Close()

	var entities []Entity
	for rows.Next() {
		var e Entity
		if err := rows.Scan(&e.ID, &e.Product, &e.CreationDay, &e.Status, &e.Resolution, &e.Restricted); err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entities: %w", err)
	}

	return entities, nil
}

// CountByCategory counts entities currently holding the given value for a
// field, optionally filtered to one product. Used by the incremental
// collector to compute today's row without replay.
func (s *Store) CountByCategory(ctx context.Context, field, value, product string) (int, error) {
	var column string
	switch field {
	case FieldStatus:
		column = "status"
	case FieldResolution:
		column = "resolution"
	default:
		return 0, fmt.Errorf("count by category: unknown field %q", field)
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM entities WHERE %s = ?", column)
	args := []any{value}
	if product != AllProducts {
		query += " AND product = ?"
		args = append(args, product)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count by category: %w", err)
	}
	return n, nil
}

// Products returns every known product name in deterministic order.
func (s *Store) Products(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM products ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return names, nil
}

// ProductExists reports whether a product name is currently defined.
// Saved series referencing a product that has since been deleted compile
// to an error, not an empty result.
func (s *Store) ProductExists(ctx context.Context, name string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM products WHERE name = ?`, name).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query product %q: %w", name, err)
	}
	return true, nil
}
