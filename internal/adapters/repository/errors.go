package repository

import "errors"

// Sentinel kinds for ledger errors.
var (
	// ErrUnavailable wraps backend failures: the write or query did not
	// happen and must never be reported as accepted.
	ErrUnavailable = errors.New("ledger storage unavailable")

	// ErrUnknownBackend is returned by Open for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)
