package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound means the operation targeted an id that does not
	// resolve to a stored record. Operations on missing ids fail
	// explicitly instead of no-opping.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable means the store could not be reached within
	// the configured bound. Callers treat it the same whether the cause
	// was a timeout or an explicit connection error.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// storeErr folds transport-level failures into ErrStoreUnavailable so
// callers see one error regardless of cause.
func storeErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) ||
		mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
