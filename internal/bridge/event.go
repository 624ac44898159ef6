// Package bridge consumes the card reader's line-oriented event
// stream and turns detected cards into check-ins.  The device channel
// is an external serial-like socket with no delivery guarantees, so
// everything in this package is written to log-and-continue: a bad
// line, an unknown card or a failed check-in must never stop the next
// event from being processed.
package bridge

import (
	"bytes"
	"encoding/json"
)

// Event kinds reported by the reader.
const (
	EventCardDetected = "card_detected"
	EventCardRemoved  = "card_removed"
)

// Event is one parsed line of the device protocol.  Exactly one of
// the groups is populated: Event (+CardUID/HardwareUID for
// card_detected), Status, or Error.  Out-of-band status and error
// lines are logged, never processed.
type Event struct {
	Event       string `json:"event"`
	CardUID     string `json:"uuid"`
	HardwareUID string `json:"uid_hardware"`
	Status      string `json:"status"`
	Error       string `json:"error"`
}

// ParseLine decodes one line from the device.  It returns ok=false
// for anything that is not a JSON object; such lines are opaque
// diagnostic text and must be surfaced through logging only.
func ParseLine(line []byte) (Event, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || line[0] != '{' {
		return Event{}, false
	}
	var ev Event
	if err := json.Unmarshal(line, &ev); err != nil {
		return Event{}, false
	}
	return ev, true
}
