package model

import "time"

// Card is the hardware-scannable token bound 1:1 to an attendee.  The
// UID is the opaque identifier the reader reports on a scan (a UUID
// string).  A card is never reassigned to a different attendee.
type Card struct {
	UID        string    `json:"card_uid"`    // cards.card_uid
	AttendeeRA uint64    `json:"attendee_ra"` // cards.attendee_ra
	IssuedAt   time.Time `json:"issued_at"`   // cards.issued_at
}
