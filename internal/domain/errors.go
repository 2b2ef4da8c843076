package domain

import "errors"

var (
	// ErrUnavailable signals a counter read that failed or returned invalid data.
	ErrUnavailable = errors.New("usage data unavailable")
	// ErrUnsupportedPlatform signals a platform below the capability a query requires.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	// ErrIdentifierUnavailable signals that no subscriber identifier could be resolved.
	ErrIdentifierUnavailable = errors.New("subscriber identifier unavailable")
	// ErrQueryFailed signals a failure inside the underlying usage provider.
	ErrQueryFailed = errors.New("usage query failed")
	// ErrNotImplemented signals an unknown channel method.
	ErrNotImplemented = errors.New("not implemented")
)

// Channel error codes sent back to the caller.
const (
	CodeUnavailable    = "UNAVAILABLE"
	CodeUnsupportedAPI = "UNSUPPORTED_API"
)

// ErrorCode maps a domain error to its channel error code.
// Anything unclassified is reported as unavailable.
func ErrorCode(err error) string {
	if errors.Is(err, ErrUnsupportedPlatform) {
		return CodeUnsupportedAPI
	}
	return CodeUnavailable
}
