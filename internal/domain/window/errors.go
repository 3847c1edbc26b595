package window

import "errors"

var (
	ErrCapacityExceeded = errors.New("window capacity exceeded")
	ErrNotFound         = errors.New("window not found")
	ErrPayloadMismatch  = errors.New("payload does not match application kind")
	ErrUnknownKind      = errors.New("unknown application kind")
)
