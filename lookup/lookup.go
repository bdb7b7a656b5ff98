// Package lookup defines the tri-state outcome of directory and registry lookups.
package lookup

import (
	"log/slog"
)

// Status is the outcome of a lookup.
type Status uint8

const (
	// StatusOK means the value was found.
	StatusOK Status = iota
	// StatusNotFound means the lookup completed and nothing matched.
	StatusNotFound
	// StatusError means the lookup itself failed.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusNotFound:
		return "NOT_FOUND"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Result carries a lookup outcome. Value is meaningful only when Status is [StatusOK].
type Result[T any] struct {
	Status Status
	Value  T
	Err    error
}

// OK returns a successful result.
func OK[T any](v T) Result[T] { return Result[T]{Status: StatusOK, Value: v} }

// NotFound returns an empty result.
func NotFound[T any]() Result[T] { return Result[T]{Status: StatusNotFound} }

// Error returns a failed result.
func Error[T any](err error) Result[T] { return Result[T]{Status: StatusError, Err: err} }

// From converts the common (value, found, err) triple into a result.
func From[T any](v T, found bool, err error) Result[T] {
	switch {
	case err != nil:
		return Error[T](err)
	case !found:
		return NotFound[T]()
	default:
		return OK(v)
	}
}

// Map converts the value of a successful result, keeping other outcomes as is.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.Status != StatusOK {
		return Result[U]{Status: r.Status, Err: r.Err}
	}
	return OK(fn(r.Value))
}

// IsOK reports whether the value was found.
func (r Result[T]) IsOK() bool { return r.Status == StatusOK }

// IsNotFound reports whether the lookup completed without a match.
func (r Result[T]) IsNotFound() bool { return r.Status == StatusNotFound }

// IsError reports whether the lookup failed.
func (r Result[T]) IsError() bool { return r.Status == StatusError }

// Get returns the value and whether it was found.
func (r Result[T]) Get() (T, bool) { return r.Value, r.Status == StatusOK }

// LogValue implements [slog.LogValuer] for structured logging.
func (r Result[T]) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("status", r.Status.String())}
	if r.Err != nil {
		attrs = append(attrs, slog.Any("error", r.Err))
	}
	return slog.GroupValue(attrs...)
}
