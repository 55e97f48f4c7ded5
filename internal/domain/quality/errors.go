package quality

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is from callers.
var (
	ErrInvalidShape = errors.New("invalid rating group shape")
	ErrInvalidBeta  = errors.New("beta must be finite and positive")
	ErrSingular     = errors.New("singular quality system")
	ErrNonFinite    = errors.New("quality is not representable")
)

// PairError identifies the free-for-all pair whose evaluation failed.
type PairError struct {
	I, J int
	Err  error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("pair (%d, %d): %v", e.I, e.J, e.Err)
}

func (e *PairError) Unwrap() error { return e.Err }

func kindf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
