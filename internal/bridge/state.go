package bridge

// ConnState describes the bridge's connection to the device channel.
// The bridge is the sole writer; everyone else reads a snapshot via
// Status().
type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	StateError
)

// String returns the wire-friendly name of the state.
func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Status is a point-in-time snapshot of the bridge for health
// reporting.
type Status struct {
	State     string `json:"state"`
	Connected bool   `json:"connected"`
	ChannelID string `json:"channel_id"`
	Speed     string `json:"speed"`
	LastError string `json:"last_error,omitempty"`
	Processed uint64 `json:"events_processed"`
	Dropped   uint64 `json:"events_dropped"`
}
