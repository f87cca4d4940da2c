package network

import "errors"

// Error kinds of the extraction pipeline. Typed errors elsewhere unwrap to
// one of these so callers can classify failures with errors.Is.
var (
	// ErrInvalidMetadata indicates a topic parameter that cannot be bound
	// as a typed query parameter.
	ErrInvalidMetadata = errors.New("invalid metadata")

	// ErrUnsupportedKind indicates a network kind with no query template.
	ErrUnsupportedKind = errors.New("unsupported network kind")

	// ErrQueryFailed indicates a backend-side failure.
	ErrQueryFailed = errors.New("query failed")

	// ErrMalformedRow indicates a backend row that fails validation.
	ErrMalformedRow = errors.New("malformed row")

	// ErrIO indicates an unreadable topic file or unwritable output.
	ErrIO = errors.New("io error")
)

// Row is one result row as returned by a query backend:
// (source_id, target_id, weight). Values are untyped because the backend
// is a trust boundary; the graph builder coerces and validates them.
type Row []any
