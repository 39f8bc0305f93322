package mood

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidScope is returned when an operation needs a specific user
	// and got none or "all".
	ErrInvalidScope = errors.New("a specific userId is required")

	// ErrStoreUnavailable wraps every failure of the underlying store.
	ErrStoreUnavailable = errors.New("record store unavailable")
)

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
