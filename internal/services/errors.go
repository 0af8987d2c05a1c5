package services

import (
	"errors"
	"fmt"
)

// errSkipContact marks an inbound contact silently skipped (empty or invalid
// email). Skipped contacts are not counted as processed.
var errSkipContact = errors.New("contact skipped")

// ErrOptedOut marks a local user whose opt-out flag blocks an inbound update.
var ErrOptedOut = errors.New("user opted out of sync")

// ConflictError reports an inbound update blocked because the local record is
// already claimed by a different remote contact.
type ConflictError struct {
	Email      string
	StoredID   int64
	IncomingID int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("didar contact id mismatch for %s: stored %d, incoming %d", e.Email, e.StoredID, e.IncomingID)
}

// CapacityError reports that no unique username could be derived for a new
// local account within the attempt budget.
type CapacityError struct {
	Email string
	Base  string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("no unique username found for %s (base %q)", e.Email, e.Base)
}
