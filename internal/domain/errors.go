package domain

import (
	"errors"
	"fmt"
)

// ErrSocketWaitExhausted reports that the daemon's control socket never
// appeared within the bounded wait. It is distinct from a failed daemon
// start: the start command succeeded but readiness never followed.
var ErrSocketWaitExhausted = errors.New("daemon socket wait exhausted")

// SocketWaitError carries the attempt count of an exhausted socket wait
// for operator diagnosis.
type SocketWaitError struct {
	Attempts int
	Interval string
}

func (e *SocketWaitError) Error() string {
	return fmt.Sprintf("daemon socket not ready after %d attempts at %s intervals", e.Attempts, e.Interval)
}

// Unwrap lets errors.Is match ErrSocketWaitExhausted.
func (e *SocketWaitError) Unwrap() error {
	return ErrSocketWaitExhausted
}
