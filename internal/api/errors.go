package api

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Sentinel errors for the failure classes callers branch on. Everything
// else from the backend surfaces as a *BackendError.
var (
	// ErrTimeout marks a request that ran out the clock. Distinct from
	// other I/O failures so callers can show a "slow network" message.
	ErrTimeout = errors.New("request timed out")

	// ErrAuth marks an expired or invalid session. Callers should clear
	// the stored session and route to login.
	ErrAuth = errors.New("session expired or invalid")

	// ErrNotFound marks a missing entity (track absent from a playlist,
	// deleted queue item, ...).
	ErrNotFound = errors.New("not found")

	// ErrUnsupported marks an operation the current service or stream
	// cannot perform (seek on a non-seekable stream, unsupported codec).
	ErrUnsupported = errors.New("operation not supported")
)

// BackendError is a non-2xx response, or a 200 whose envelope reports
// success=false, with the server-supplied message retained.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend error (status %d): %s", e.Status, e.Message)
}

// classifyTransport maps transport-level failures onto the taxonomy.
func classifyTransport(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
