package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_STR", "value")
	assert.Equal(t, "value", envStr("X_STR", "def"))
	assert.Equal(t, "def", envStr("X_STR_MISSING", "def"))

	t.Setenv("X_BOOL", "yes")
	assert.True(t, envBool("X_BOOL", false))
	t.Setenv("X_BOOL", "off")
	assert.False(t, envBool("X_BOOL", true))
	t.Setenv("X_BOOL", "maybe")
	assert.True(t, envBool("X_BOOL", true))

	t.Setenv("X_INT", "42")
	assert.Equal(t, 42, envInt("X_INT", 0))
	t.Setenv("X_INT", "nope")
	assert.Equal(t, 7, envInt("X_INT", 7))

	t.Setenv("X_DUR", "250ms")
	assert.Equal(t, 250*time.Millisecond, envDur("X_DUR", time.Second))
	t.Setenv("X_DUR", "forever")
	assert.Equal(t, time.Second, envDur("X_DUR", time.Second))
}

func TestLoadBridgeConfigDefaults(t *testing.T) {
	t.Setenv("DEVICE_ADDR", "")
	t.Setenv("DEVICE_SPEED", "")
	t.Setenv("DEVICE_DIAL_TIMEOUT", "")
	t.Setenv("DEVICE_QUEUE_SIZE", "")

	cfg := LoadBridgeConfig()
	assert.Equal(t, "localhost:9100", cfg.Addr)
	assert.Equal(t, "9600", cfg.Speed)
	assert.Equal(t, 5*time.Second, cfg.DialTimeout)
	assert.Equal(t, 256, cfg.QueueSize)
}

func TestLoadRateLimitConfigClampsValues(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 2*time.Second, cfg.RefillInterval)
	// TTL is raised to cover at least five refill intervals.
	assert.Equal(t, 10*time.Second, cfg.TTL)
}
