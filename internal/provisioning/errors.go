package provisioning

import (
	"errors"
	"fmt"
	"time"
)

// ErrUserAbort is returned when the user declines the pre-mutation
// confirmation gate. It is not a failure: nothing was mutated, no
// rollback runs, and the process exits 0.
var ErrUserAbort = errors.New("aborted by user")

// PreconditionError reports invalid configuration, an unsupported
// platform, or missing prerequisites. It is detected before any
// mutation, so no rollback is needed.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return "precondition failed: " + e.Reason
}

// Preconditionf builds a PreconditionError from a format string.
func Preconditionf(format string, args ...any) error {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}

// HealthCheckError reports that a deployed artifact did not become
// healthy within its timeout. Steps that implement Degradable may offer
// the user a degraded-continue choice; if declined, the error escalates
// to an ordinary step failure and triggers rollback.
type HealthCheckError struct {
	Target  string
	Timeout time.Duration
	Err     error
}

func (e *HealthCheckError) Error() string {
	return fmt.Sprintf("%s did not become healthy within %v: %v", e.Target, e.Timeout, e.Err)
}

func (e *HealthCheckError) Unwrap() error {
	return e.Err
}

// AsHealthCheck extracts a HealthCheckError from an error chain.
func AsHealthCheck(err error) (*HealthCheckError, bool) {
	var hc *HealthCheckError
	if errors.As(err, &hc) {
		return hc, true
	}
	return nil, false
}
