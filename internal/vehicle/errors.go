package vehicle

import "errors"

var (
	// ErrInvalidConfiguration rejects a wheel whose geometry or stiffness cannot be simulated.
	ErrInvalidConfiguration = errors.New("invalid wheel configuration")
	// ErrIndexOutOfRange is returned by per-wheel calls given an index >= NumWheels.
	ErrIndexOutOfRange = errors.New("wheel index out of range")
)
