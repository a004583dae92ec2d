// Package apperr classifies failures so HTTP handlers and CLI entrypoints
// can decide status codes and how much detail to leak without string
// matching on error text.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// Configuration: a required credential or environment value is absent.
	Configuration Kind = iota
	// Validation: the caller omitted or malformed required parameters.
	Validation
	// Protocol: the upstream responded but the envelope shape was wrong.
	Protocol
	// Upstream: transport failure or non-2xx from the pricing API.
	Upstream
	// Record: failure deriving or persisting a single ticket record.
	Record
	// StorageUnavailable: the store cannot be reached at all.
	StorageUnavailable
)

func (k Kind) String() string {
	switch k {
	case Configuration:
		return "configuration"
	case Validation:
		return "validation"
	case Protocol:
		return "protocol"
	case Upstream:
		return "upstream"
	case Record:
		return "record"
	case StorageUnavailable:
		return "storage_unavailable"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf reports the kind of err, walking the wrap chain. The second
// return is false for errors that never passed through this package.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
