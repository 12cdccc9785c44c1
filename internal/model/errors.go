package model

import "errors"

// Domain error taxonomy. Expected, user-correctable conditions are
// sentinel errors so callers can branch with errors.Is and translate
// them into a user-facing message instead of logging them as failures.
var (
	// ErrAlreadyActive is returned by clock-in when the identity already
	// has an active duty session.
	ErrAlreadyActive = errors.New("already clocked in")

	// ErrNoActiveSession is returned by clock-out when the identity has
	// no active duty session.
	ErrNoActiveSession = errors.New("no active duty session")

	// ErrNoProfile is returned when an operation requires a duty profile
	// the identity has not created yet.
	ErrNoProfile = errors.New("no duty profile")

	// ErrAlreadyReviewed is returned when an application is accepted or
	// declined a second time.
	ErrAlreadyReviewed = errors.New("application already reviewed")

	// ErrNotFound is returned by lookups for rows that do not exist.
	ErrNotFound = errors.New("not found")
)
