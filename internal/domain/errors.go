package domain

import "errors"

// Fetch-layer failures. These never escalate past a dataset handler;
// they trigger the local backup fallback instead.
var (
	// ErrInvalidLocation is returned when a source URL matches none of
	// the accepted sheet URI shapes.
	ErrInvalidLocation = errors.New("invalid source location")

	// ErrUnreachable covers transport failures and timeouts.
	ErrUnreachable = errors.New("source unreachable")

	// ErrEmptyResult is returned when the remote sheet has no data rows.
	// An empty sheet is treated as a failure so fallback logic activates.
	ErrEmptyResult = errors.New("source returned no rows")

	// ErrParseFailure is returned when the remote payload is not a
	// readable workbook.
	ErrParseFailure = errors.New("source payload could not be parsed")
)

// Caller-facing failures that do propagate.
var (
	// ErrForbidden rejects an operation the acting identity may not perform.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound marks missing configuration or backup data. Absence is
	// not exceptional; callers branch on it rather than failing.
	ErrNotFound = errors.New("not found")
)
