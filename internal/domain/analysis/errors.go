package analysis

import (
	"errors"
	"fmt"
)

// ErrServiceUnavailable means the health probe failed. The gateway turns it
// into the fallback result; callers never see it.
var ErrServiceUnavailable = errors.New("analysis service unavailable")

// ErrNotFound is returned by repositories when no row matches id and user.
var ErrNotFound = errors.New("analysis not found")

// ValidationError covers missing form fields and the word count policy.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Msg }

// TimeoutError means the analyze call exceeded its deadline.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string { return fmt.Sprintf("analysis request timed out: %v", e.Err) }
func (e *TimeoutError) Unwrap() error { return e.Err }

// ServiceError carries a non-2xx response from the analyze endpoint.
type ServiceError struct {
	Status int
	Body   string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("API Error: %d - %s", e.Status, e.Body)
}

// NetworkError is any other transport failure during analyze.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError means a 2xx payload failed schema validation or decoding.
type DecodeError struct {
	Reasons []string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid analysis payload: %v", e.Err)
	}
	return fmt.Sprintf("invalid analysis payload: %v", e.Reasons)
}
func (e *DecodeError) Unwrap() error { return e.Err }

const (
	MsgTimeout     = "Request timed out. Please try again with a shorter contract."
	MsgUnavailable = "Analysis service is temporarily unavailable. Please try again later."
	MsgNetwork     = "Network error. Please check your connection and try again."
	MsgGeneric     = "Failed to analyze contract. Please try again."
)

// UserMessage maps an error from the analyze flow to the text shown to the
// user. Upstream bodies are never included.
func UserMessage(err error) string {
	var (
		ve *ValidationError
		te *TimeoutError
		se *ServiceError
		ne *NetworkError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Msg
	case errors.As(err, &te):
		return MsgTimeout
	case errors.As(err, &se):
		return MsgUnavailable
	case errors.As(err, &ne):
		return MsgNetwork
	default:
		return MsgGeneric
	}
}
