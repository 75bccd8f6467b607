// Package series runs saved sampling queries on a load-distributed daily
// schedule and records one data point per series per day.
package series

import (
	"context"
	"errors"
	"fmt"

	"github.com/hindsight-io/hindsight/internal/store"
)

// QueryExecutor turns a saved series definition into matching entity IDs,
// evaluated under the owning user's visibility rather than the job
// operator's. The returned slice may contain duplicates; callers count
// distinct IDs.
type QueryExecutor interface {
	Execute(ctx context.Context, definition string, owner store.User) ([]int64, error)
}

// CompileError reports a definition that no longer compiles, typically
// because it references a product, field, or value that has been deleted
// or renamed since the series was saved. The scheduler treats it as a
// silent skip: no data point for that date, job continues.
type CompileError struct {
	Definition string
	Reason     string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("query definition %q does not compile: %s", e.Definition, e.Reason)
}

// IsCompileError reports whether err is a definition compile failure.
// Uses errors.As to handle wrapped errors.
func IsCompileError(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce)
}

func compileErr(definition, format string, args ...any) *CompileError {
	return &CompileError{Definition: definition, Reason: fmt.Sprintf(format, args...)}
}
