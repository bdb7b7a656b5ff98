package sip

import "github.com/sipio/sipproxy/internal/errorutil"

// Common errors.
const (
	ErrInvalidArgument = errorutil.ErrInvalidArgument
)

// Message errors.
const (
	ErrInvalidMessage   Error = "invalid message"
	ErrMethodNotAllowed Error = "request method not allowed"
	ErrTooManyHops      Error = "too many hops"

	errMissHdrs Error = "missing mandatory headers"
)

// Error represents a SIP error.
// See [errorutil.Error].
type Error = errorutil.Error

// NewInvalidArgumentError creates a new error with [ErrInvalidArgument] or
// wraps provided error with [ErrInvalidArgument].
func NewInvalidArgumentError(args ...any) error {
	return errorutil.NewInvalidArgumentError(args...) //errtrace:skip
}
