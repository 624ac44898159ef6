package model

import "time"

// CheckinRecord is proof that an attendee attended a session.  At most
// one exists per (attendee, session) pair; the database enforces that
// with a composite unique key, so concurrent duplicate attempts leave
// exactly one row.
type CheckinRecord struct {
	ID          uint64    `json:"id"`            // checkins.id
	AttendeeRA  uint64    `json:"attendee_ra"`   // checkins.attendee_ra
	SessionID   uint64    `json:"session_id"`    // checkins.session_id
	CheckedInAt time.Time `json:"checked_in_at"` // checkins.checked_in_at, server-assigned
}
