package bridge

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/talk-checkin/internal/config"
	"github.com/iliyamo/talk-checkin/internal/model"
)

func TestConnStateString(t *testing.T) {
	assert.Equal(t, "DISCONNECTED", StateDisconnected.String())
	assert.Equal(t, "CONNECTING", StateConnecting.String())
	assert.Equal(t, "CONNECTED", StateConnected.String())
	assert.Equal(t, "ERROR", StateError.String())
	assert.Equal(t, "UNKNOWN", ConnState(42).String())
}

func TestBridgeInitialStatus(t *testing.T) {
	cfg := config.BridgeConfig{Addr: "localhost:9100", Speed: "9600", DialTimeout: time.Second}
	b := New(cfg, testPipeline(&fakeDirectory{}, &fakeRegistry{}, newFakeLedger(true)))

	st := b.Status()
	assert.Equal(t, "DISCONNECTED", st.State)
	assert.False(t, st.Connected)
	assert.Equal(t, "localhost:9100", st.ChannelID)
	assert.Equal(t, "9600", st.Speed)
	assert.Zero(t, st.Processed)
	assert.Zero(t, st.Dropped)
}

// TestBridgeConsumesDeviceStream drives the bridge against a real
// listener standing in for the reader daemon: noise, malformed lines
// and unknown cards must not keep the valid scan from landing.
func TestBridgeConsumesDeviceStream(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	dir := &fakeDirectory{byCard: map[string]*model.Attendee{
		"card-A": {RA: 1001, Name: "Ana"},
	}}
	reg := &fakeRegistry{active: &model.Session{ID: 7, Title: "Intro"}, enabled: 1}
	led := newFakeLedger(true)

	cfg := config.BridgeConfig{Addr: ln.Addr().String(), Speed: "9600", DialTimeout: time.Second, QueueSize: 16}
	b := New(cfg, testPipeline(dir, reg, led))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	conn, err := ln.Accept()
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return b.Status().Connected }, 2*time.Second, 10*time.Millisecond)

	_, err = conn.Write([]byte(
		"READER v2.1 boot\n" +
			`{"status":"ready"}` + "\n" +
			`{"event":"card_detected","uuid":"card-unknown","uid_hardware":"04:00"}` + "\n" +
			"{malformed\n" +
			`{"event":"card_detected","uuid":"card-A","uid_hardware":"04:A3"}` + "\n" +
			`{"event":"card_removed"}` + "\n" +
			`{"error":"read timeout"}` + "\n"))
	require.NoError(t, err)

	require.Eventually(t, func() bool { return led.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return b.Status().Processed >= 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, led.count(), "only the registered card checks in")

	cancel()
	require.Eventually(t, func() bool { return !b.Status().Connected }, 2*time.Second, 10*time.Millisecond)
}

// TestBridgeReconnects verifies the channel-close path: after the
// device side drops, the bridge leaves CONNECTED and dials again.
func TestBridgeReconnects(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := config.BridgeConfig{Addr: ln.Addr().String(), Speed: "9600", DialTimeout: time.Second}
	b := New(cfg, testPipeline(&fakeDirectory{}, &fakeRegistry{}, newFakeLedger(true)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	conn, err := ln.Accept()
	require.NoError(t, err)
	require.Eventually(t, func() bool { return b.Status().Connected }, 2*time.Second, 10*time.Millisecond)

	// Drop the device side; the supervisor should come back for more.
	_ = conn.Close()
	conn2, err := ln.Accept()
	require.NoError(t, err)
	defer conn2.Close()
	require.Eventually(t, func() bool { return b.Status().Connected }, 5*time.Second, 10*time.Millisecond)
}
