// Package store error types.
package store

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// Sentinel errors for store operations. Check with errors.Is().
var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a unique-constraint violation.
	ErrDuplicate = errors.New("duplicate row")
)

// wrapRowError maps driver-level errors onto the package sentinels.
// Returns the original error when it matches no known condition.
func wrapRowError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return ErrDuplicate
	}
	return err
}
