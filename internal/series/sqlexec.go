package series

import (
	"context"
	"fmt"
	"strings"

	"github.com/hindsight-io/hindsight/internal/store"
)

// SQLExecutor is the shipped QueryExecutor: it compiles the saved
// definition grammar to one parameterized SQL query against current
// entity state.
//
// The grammar is key=value pairs joined by '&', e.g.
//
//	product=Widgets&status=NEW&status=ASSIGNED
//
// Repeating a key ORs its values; distinct keys AND together. Values are
// always bound parameters, never interpolated into the SQL text.
type SQLExecutor struct {
	Store *store.Store
}

// Fields a definition may filter on, each mapping to an entities column.
var definitionFields = map[string]string{
	"product":    "product",
	"status":     "status",
	"resolution": "resolution",
}

// Execute compiles and runs a definition under the owner's visibility.
// Non-admin owners never see restricted entities. A definition that
// references an unknown field or a product absent from the products table
// fails with a CompileError.
func (e *SQLExecutor) Execute(ctx context.Context, definition string, owner store.User) ([]int64, error) {
	clauses, err := parseDefinition(definition)
	if err != nil {
		return nil, err
	}

	if err := e.validateProducts(ctx, definition, clauses["product"]); err != nil {
		return nil, err
	}

	var (
		where  []string
		params []any
	)
	// Iterate the field table, not the clause map, for a deterministic
	// clause order.
	for _, key := range []string{"product", "status", "resolution"} {
		values := clauses[key]
		if len(values) == 0 {
			continue
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
		where = append(where, fmt.Sprintf("%s IN (%s)", definitionFields[key], placeholders))
		for _, v := range values {
			params = append(params, v)
		}
	}
	if !owner.IsAdmin {
		where = append(where, "restricted = 0")
	}

	query := "SELECT DISTINCT id FROM entities WHERE " + strings.Join(where, " AND ") + " ORDER BY id ASC"

	rows, err := e.Store.Query(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("execute series query: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan series result: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate series results: %w", err)
	}

	return ids, nil
}

func parseDefinition(definition string) (map[string][]string, error) {
	if strings.TrimSpace(definition) == "" {
		return nil, compileErr(definition, "empty definition")
	}

	clauses := make(map[string][]string)
	for _, pair := range strings.Split(definition, "&") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, compileErr(definition, "malformed clause %q", pair)
		}
		if _, known := definitionFields[key]; !known {
			return nil, compileErr(definition, "unknown field %q", key)
		}
		clauses[key] = append(clauses[key], value)
	}
	return clauses, nil
}

// validateProducts rejects definitions referencing products that no
// longer exist; the saved query is stale, not empty.
func (e *SQLExecutor) validateProducts(ctx context.Context, definition string, products []string) error {
	for _, p := range products {
		ok, err := e.Store.ProductExists(ctx, p)
		if err != nil {
			return fmt.Errorf("validate products: %w", err)
		}
		if !ok {
			return compileErr(definition, "product %q does not exist", p)
		}
	}
	return nil
}
