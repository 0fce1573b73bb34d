package service

import "errors"

// Sentinel kinds for vote validation errors. These are boundary
// rejections: the event never reaches the ledger.
var (
	ErrBadIdentity    = errors.New("malformed user identity")
	ErrDayOutOfRange  = errors.New("day index out of range")
	ErrTaskOutOfRange = errors.New("task index out of range")
)

// maxUserIDLen bounds the accepted identity length.
const maxUserIDLen = 64

// validateIdentity rejects user ids of an unexpected shape before they
// reach the store.
func validateIdentity(userID string) error {
	if userID == "" || len(userID) > maxUserIDLen {
		return ErrBadIdentity
	}
	for _, r := range userID {
		if r <= ' ' || r == 0x7f {
			return ErrBadIdentity
		}
	}
	return nil
}
