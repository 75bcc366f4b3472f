package gateway

import (
	"errors"
	"fmt"
)

var ErrZeroTotalWeight = errors.New("suggested weights sum to zero")

// ValidationError reports a reply that was received but cannot be trusted:
// unparseable JSON, a missing top-level key, or a field of the wrong shape.
type ValidationError struct {
	Op     string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("malformed %s response: %s", e.Op, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

// UpstreamError wraps a transport or service-reported failure.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsUpstream(err error) bool {
	var u *UpstreamError
	return errors.As(err, &u)
}
