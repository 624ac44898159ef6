package config

import "time"

// BridgeConfig defines settings for the card reader bridge.  Addr is
// the serial-over-TCP endpoint of the reader daemon; Speed is a
// display label for health reporting (the daemon owns the physical
// line rate).  QueueSize bounds the dispatch queue between the read
// loop and the check-in worker; scans beyond it are dropped rather
// than blocking the device.
type BridgeConfig struct {
	Addr        string
	Speed       string
	DialTimeout time.Duration
	QueueSize   int
}

// LoadBridgeConfig reads environment variables to build a
// BridgeConfig.  Defaults are used when variables are not set.
func LoadBridgeConfig() BridgeConfig {
	return BridgeConfig{
		Addr:        envStr("DEVICE_ADDR", "localhost:9100"),
		Speed:       envStr("DEVICE_SPEED", "9600"),
		DialTimeout: envDur("DEVICE_DIAL_TIMEOUT", 5*time.Second),
		QueueSize:   envInt("DEVICE_QUEUE_SIZE", 256),
	}
}
