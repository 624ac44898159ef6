package model

import "time"

// Display statuses derived from a session's gate and schedule.  They
// are never stored; List handlers compute them at read time.
const (
	StatusActive            = "ACTIVE"
	StatusPending           = "PENDING"
	StatusConcludedOrPaused = "CONCLUDED_OR_PAUSED"
)

// Session represents a scheduled talk.  CheckinEnabled is the gate an
// organizer toggles to start or pause check-ins; it is the only
// mutable field in scope.
//
// Fields:
//  ID             – primary key identifier.
//  Title          – talk title.
//  Description    – talk description.
//  StartsAt       – scheduled start.
//  EndsAt         – scheduled end (must be after StartsAt).
//  CheckinEnabled – whether check-ins are currently accepted.
//  CreatedAt      – creation timestamp.
type Session struct {
	ID             uint64    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	CheckinEnabled bool      `json:"checkin_enabled"`
	CreatedAt      time.Time `json:"created_at"`
}

// Status derives the display status of the session at the given
// instant: ACTIVE whenever the gate is open, PENDING before the
// scheduled start, CONCLUDED_OR_PAUSED otherwise.
func (s *Session) Status(now time.Time) string {
	if s.CheckinEnabled {
		return StatusActive
	}
	if now.Before(s.StartsAt) {
		return StatusPending
	}
	return StatusConcludedOrPaused
}
