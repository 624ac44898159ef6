package model

import "time"

// Certificate holds the artifact issued for a check-in.  Its identity
// derives from the same (attendee, session) pair as the check-in it
// certifies; a unique key keeps batch issuance from double-issuing.
// The artifact bytes are opaque to this service.
type Certificate struct {
	ID         uint64    `json:"id"`          // certificates.id
	AttendeeRA uint64    `json:"attendee_ra"` // certificates.attendee_ra
	SessionID  uint64    `json:"session_id"`  // certificates.session_id
	FileBlob   []byte    `json:"-"`           // certificates.file_blob
	IssuedAt   time.Time `json:"issued_at"`   // certificates.issued_at
}
