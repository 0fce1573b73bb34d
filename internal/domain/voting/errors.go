package voting

import "errors"

// Sentinel kinds for voting errors.
var (
	ErrUnknownKind = errors.New("unknown event kind")
)
