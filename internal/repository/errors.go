// Package repository defines sentinel error values that are reused
// across multiple repositories. These values let handlers and the
// card-scan bridge distinguish failure scenarios without inspecting
// database error text: a duplicate check-in is a benign outcome for
// the bridge but a 409 for the API, a closed gate is a 403, and so on.
package repository

import (
	"errors"
	"strings"
)

// ErrAttendeeExists is returned when a registration number is already
// taken. Handlers should translate this into an HTTP 400 response.
var ErrAttendeeExists = errors.New("attendee already exists")

// ErrCardExists is returned when the supplied card identifier is
// already bound to another attendee.
var ErrCardExists = errors.New("card already exists")

// ErrCardNotFound is returned when no card matches a scanned
// identifier. The bridge treats this as an unregistered card and
// drops the event.
var ErrCardNotFound = errors.New("card not found")

// ErrSessionNotFound is returned when a referenced session is absent.
// Handlers should translate this into an HTTP 404 response.
var ErrSessionNotFound = errors.New("session not found")

// ErrNoActiveSession is returned by FindActive when no session has
// its check-in gate enabled. This is the normal steady state between
// talks, not an incident.
var ErrNoActiveSession = errors.New("no active session")

// ErrCheckinClosed is returned when a check-in targets a session whose
// gate is not enabled at call time. Handlers should translate this
// into an HTTP 403 response.
var ErrCheckinClosed = errors.New("checkin not active for session")

// ErrDuplicateCheckin is returned when the (attendee, session) pair
// already has a check-in record. The unique key guarantees exactly one
// concurrent caller wins; every loser sees this error. Handlers should
// translate it into an HTTP 409 response.
var ErrDuplicateCheckin = errors.New("attendee already checked in")

// isDuplicateKey reports whether err is a MySQL duplicate-key
// violation (error 1062).
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "1062")
}
