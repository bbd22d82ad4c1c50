package loadcheck

import "errors"

// Sentinel errors reported by Run.
var (
	ErrLostUpdates  = errors.New("counter lost updates")
	ErrExtraUpdates = errors.New("counter has more updates than successful requests")
	ErrBadStatus    = errors.New("unexpected status from counter endpoint")
)
