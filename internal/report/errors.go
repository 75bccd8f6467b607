package report

import (
	"errors"
	"fmt"
)

// StorageIOError marks a time-series file that could not be read or
// written. It is fatal for the affected product only: the runner logs it
// and moves on to the next product.
type StorageIOError struct {
	Product string
	Op      string // "parse", "append", "rewrite"
	Err     error
}

func (e *StorageIOError) Error() string {
	return fmt.Sprintf("time-series %s failed for product %q: %v", e.Op, e.Product, e.Err)
}

func (e *StorageIOError) Unwrap() error {
	return e.Err
}

// IsStorageIOError reports whether err is a per-product storage failure.
// Uses errors.As to handle wrapped errors.
func IsStorageIOError(err error) bool {
	var se *StorageIOError
	return errors.As(err, &se)
}

func storageErr(product, op string, err error) *StorageIOError {
	return &StorageIOError{Product: product, Op: op, Err: err}
}
