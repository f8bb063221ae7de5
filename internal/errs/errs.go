// Package errs defines the surface-level error taxonomy shared by the read
// path, write path, cache, and event components, and the translation of
// that taxonomy into gRPC status codes at the adapter boundary.
package errs

import (
	"github.com/cockroachdb/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind classifies an error for the purpose of client-facing propagation.
type Kind int

const (
	// Internal covers database, decode, and pool failures whose details are
	// logged but never sent to the caller.
	Internal Kind = iota
	// Invalid covers validation, pagination-combination, and bad-cursor
	// failures.
	Invalid
	// NotFound covers a missing row.
	NotFound
	// PublishRefused covers a broker rejecting a publish.
	PublishRefused
	// PoolExhausted covers a connection pool wait timing out; it is
	// reported to callers as Internal.
	PoolExhausted
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case NotFound:
		return "not_found"
	case PublishRefused:
		return "publish_refused"
	case PoolExhausted:
		return "pool_exhausted"
	default:
		return "internal"
	}
}

type kindError struct {
	kind Kind
	err  error
}

func (e *kindError) Error() string { return e.err.Error() }
func (e *kindError) Unwrap() error { return e.err }

// Wrap attaches kind to err (wrapped with a stack trace via
// cockroachdb/errors) and a contextual message.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, err: errors.Wrap(err, msg)}
}

// New creates a fresh error of kind with the given message.
func New(kind Kind, msg string) error {
	return &kindError{kind: kind, err: errors.New(msg)}
}

// Newf creates a fresh error of kind with a formatted message.
func Newf(kind Kind, format string, args ...any) error {
	return &kindError{kind: kind, err: errors.Newf(format, args...)}
}

// KindOf reports the Kind carried by err, defaulting to Internal when err
// does not carry one of its own (e.g. a raw database driver error).
func KindOf(err error) Kind {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return Internal
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// GRPCStatus maps err to the gRPC status its Kind requires. PublishRefused
// and PoolExhausted are never expected to reach this function directly
// (callers swallow/downgrade them first) but are mapped defensively.
func GRPCStatus(err error) error {
	if err == nil {
		return nil
	}
	switch KindOf(err) {
	case Invalid:
		return status.Error(codes.InvalidArgument, err.Error())
	case NotFound:
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
