package badger

import "errors"

// ErrBackendRequired is returned when a nil backend is provided.
var ErrBackendRequired = errors.New("badger backend required")
