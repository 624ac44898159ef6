package bridge

import (
	"bufio"
	"context"
	"log"
	"net"
	"sync"
	"time"

	"github.com/iliyamo/talk-checkin/internal/config"
)

// Bridge owns the connection to the card reader daemon.  It runs two
// goroutines: the supervisor, which dials the device and reads lines,
// and a worker, which drains the dispatch queue and runs the check-in
// pipeline.  The split means a slow or stuck check-in never blocks
// receipt of the next card event; when the queue is full the event is
// dropped and counted instead.
type Bridge struct {
	cfg      config.BridgeConfig
	pipeline *Pipeline
	events   chan Event

	mu        sync.Mutex
	state     ConnState
	lastErr   string
	processed uint64
	dropped   uint64
}

// New constructs a Bridge in the DISCONNECTED state.  Nothing happens
// until Run is called.
func New(cfg config.BridgeConfig, pipeline *Pipeline) *Bridge {
	if pipeline == nil {
		panic("nil pipeline passed to bridge.New")
	}
	size := cfg.QueueSize
	if size <= 0 {
		size = 256
	}
	return &Bridge{
		cfg:      cfg,
		pipeline: pipeline,
		events:   make(chan Event, size),
		state:    StateDisconnected,
	}
}

// Status returns a snapshot of the bridge for health reporting.
func (b *Bridge) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Status{
		State:     b.state.String(),
		Connected: b.state == StateConnected,
		ChannelID: b.cfg.Addr,
		Speed:     b.cfg.Speed,
		LastError: b.lastErr,
		Processed: b.processed,
		Dropped:   b.dropped,
	}
}

func (b *Bridge) setState(s ConnState, err error) {
	b.mu.Lock()
	b.state = s
	if err != nil {
		b.lastErr = err.Error()
	}
	b.mu.Unlock()
}

// Run supervises the device channel until ctx is cancelled.  It keeps
// a reconnect loop with exponential backoff (reset after a successful
// connect) so a reader power-cycle degrades the bridge instead of
// killing it.  Run only returns once ctx is done.
func (b *Bridge) Run(ctx context.Context) {
	go b.work(ctx)

	backoff := time.Second
	for {
		if ctx.Err() != nil {
			b.setState(StateDisconnected, nil)
			return
		}
		b.setState(StateConnecting, nil)
		conn, err := net.DialTimeout("tcp", b.cfg.Addr, b.cfg.DialTimeout)
		if err != nil {
			b.setState(StateError, err)
			log.Printf("bridge: failed to open device channel %s: %v; retrying in %s", b.cfg.Addr, err, backoff)
			if !sleep(ctx, backoff) {
				b.setState(StateDisconnected, nil)
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect
		b.setState(StateConnected, nil)
		log.Printf("bridge: device channel %s connected", b.cfg.Addr)

		b.readLoop(ctx, conn)
		b.setState(StateDisconnected, nil)
		log.Printf("bridge: device channel %s closed; reconnecting", b.cfg.Addr)
	}
}

// readLoop consumes lines until the channel closes or ctx is
// cancelled.  Cancellation closes the connection to unblock the
// scanner.
func (b *Bridge) readLoop(ctx context.Context, conn net.Conn) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		b.handleLine(scanner.Bytes())
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		b.setState(StateError, err)
		log.Printf("bridge: device channel read error: %v", err)
	}
}

// handleLine parses one device line and enqueues card_detected events
// for the worker.  Everything else is logged here and goes no further.
func (b *Bridge) handleLine(line []byte) {
	ev, ok := ParseLine(line)
	if !ok {
		if len(line) > 0 {
			log.Printf("bridge: device says: %s", line)
		}
		return
	}
	switch {
	case ev.Error != "":
		log.Printf("bridge: device error: %s", ev.Error)
	case ev.Status != "":
		log.Printf("bridge: device status: %s", ev.Status)
	case ev.Event == EventCardDetected:
		select {
		case b.events <- ev:
		default:
			// Dropping is the only option: the device has no
			// backpressure and blocking here would stall receipt.
			b.mu.Lock()
			b.dropped++
			b.mu.Unlock()
			log.Printf("bridge: dispatch queue full; dropping scan of card %s", ev.CardUID)
		}
	case ev.Event == EventCardRemoved:
		// Informational only; check-ins key off detection.
	default:
		log.Printf("bridge: unknown device event %q", ev.Event)
	}
}

// work drains the dispatch queue.  Each scan runs with its own
// timeout, detached from the device read that produced it.
func (b *Bridge) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-b.events:
			evCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			b.pipeline.Handle(evCtx, ev.CardUID)
			cancel()
			b.mu.Lock()
			b.processed++
			b.mu.Unlock()
		}
	}
}

// sleep waits for d or until ctx is cancelled; it reports whether the
// full duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
