package matchfile

import "errors"

// Sentinel error kinds for this package.
var (
	ErrDecode      = errors.New("decode match file")
	ErrInvalidFile = errors.New("invalid match file")
)
