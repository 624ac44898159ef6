// Package queue defines message payloads exchanged over the message broker.
package queue

// CheckinQueueName is the durable queue both the publisher and the
// audit consumer use.
const CheckinQueueName = "checkin.confirmed"

// CheckinConfirmedEvent is published after a check-in record is
// created, whether it came from the API or from a card scan.  It
// carries enough information for downstream consumers to log or
// notify without querying the primary database.
type CheckinConfirmedEvent struct {
	AttendeeRA   uint64 `json:"attendee_ra"`
	AttendeeName string `json:"attendee_name"`
	SessionID    uint64 `json:"session_id"`
	SessionTitle string `json:"session_title"`
	Source       string `json:"source"` // "manual" or "card_scan"
	CheckedInAt  string `json:"checked_in_at"`
}
