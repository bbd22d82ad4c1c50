package wire

import "errors"

// ErrConnect is returned when a backend client cannot be created.
var ErrConnect = errors.New("backend connect failed")
