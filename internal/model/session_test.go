package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionStatus(t *testing.T) {
	start := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	s := Session{StartsAt: start, EndsAt: end}

	// Gate closed before the scheduled start.
	assert.Equal(t, StatusPending, s.Status(start.Add(-time.Minute)))

	// Gate open wins over the schedule, even before the start.
	s.CheckinEnabled = true
	assert.Equal(t, StatusActive, s.Status(start.Add(-time.Minute)))
	assert.Equal(t, StatusActive, s.Status(end.Add(time.Hour)))

	// Gate closed again: anything at or past the start is concluded or paused.
	s.CheckinEnabled = false
	assert.Equal(t, StatusConcludedOrPaused, s.Status(start))
	assert.Equal(t, StatusConcludedOrPaused, s.Status(end.Add(time.Hour)))
}

func TestSessionStatusFollowsLastToggle(t *testing.T) {
	start := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	s := Session{StartsAt: start, EndsAt: start.Add(time.Hour)}
	now := start.Add(10 * time.Minute)

	// Toggling back and forth leaves only the final gate value visible.
	s.CheckinEnabled = false
	s.CheckinEnabled = true
	s.CheckinEnabled = false
	assert.Equal(t, StatusConcludedOrPaused, s.Status(now))

	s.CheckinEnabled = true
	assert.Equal(t, StatusActive, s.Status(now))
}
