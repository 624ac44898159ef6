package model

import "time"

// Attendee represents a registered participant.  The registration
// number (RA) is assigned by the institution and never reused, so it
// doubles as the primary key.  Every attendee owns exactly one card,
// created in the same transaction as the attendee itself.
//
// Fields:
//  RA        – attendees.ra, institutional registration number.
//  Name      – attendees.name, display name.
//  Program   – attendees.program, course or program label.
//  CreatedAt – attendees.created_at.
type Attendee struct {
	RA        uint64    `json:"ra"`
	Name      string    `json:"name"`
	Program   string    `json:"program"`
	CreatedAt time.Time `json:"created_at"`
}
