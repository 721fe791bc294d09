package sim

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var ErrClockRunning = errors.New("clock already running")

// Clock calls State.Tick at a fixed interval from its own goroutine.
// Stopping it only prevents further ticks; a tick in progress completes.
type Clock struct {
	state    *State
	interval time.Duration
	maxTicks int64
	onTick   func(TickReport)
	log      *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

type ClockOption func(*Clock)

// OnTick registers fn to receive every report. fn runs on the clock
// goroutine and must not block for long.
func OnTick(fn func(TickReport)) ClockOption {
	return func(c *Clock) { c.onTick = fn }
}

// WithMaxTicks stops the clock by itself after n ticks. n <= 0 runs until
// stopped.
func WithMaxTicks(n int64) ClockOption {
	return func(c *Clock) { c.maxTicks = n }
}

func WithClockLogger(l *slog.Logger) ClockOption {
	return func(c *Clock) {
		if l != nil {
			c.log = l
		}
	}
}

func NewClock(s *State, interval time.Duration, opts ...ClockOption) *Clock {
	if interval <= 0 {
		interval = time.Second
	}
	c := &Clock{state: s, interval: interval, log: s.log}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Clock) Interval() time.Duration { return c.interval }

// Start begins ticking in the background until ctx is done, Stop is
// called, or the tick limit is reached.
func (c *Clock) Start(ctx context.Context) error {
	_, err := c.start(ctx)
	return err
}

// Run ticks like Start and blocks until the clock stops. Cancellation is
// a normal stop and returns nil.
func (c *Clock) Run(ctx context.Context) error {
	done, err := c.start(ctx)
	if err != nil {
		return err
	}
	<-done
	return nil
}

// Stop halts the clock and waits for its goroutine to exit.
func (c *Clock) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done != nil
}

func (c *Clock) start(ctx context.Context) (chan struct{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done != nil {
		return nil, ErrClockRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel, c.done = cancel, done

	go func() {
		defer close(done)
		defer cancel()
		c.loop(ctx)

		c.mu.Lock()
		if c.done == done {
			c.cancel, c.done = nil, nil
		}
		c.mu.Unlock()
	}()
	return done, nil
}

func (c *Clock) loop(ctx context.Context) {
	c.log.Info("clock started", "interval", c.interval, "max_ticks", c.maxTicks)
	t := time.NewTicker(c.interval)
	defer t.Stop()

	var n int64
	for {
		select {
		case <-ctx.Done():
			c.log.Info("clock stopped", "ticks", n)
			return
		case <-t.C:
			rep := c.state.Tick()
			if c.onTick != nil {
				c.onTick(rep)
			}
			n++
			if c.maxTicks > 0 && n >= c.maxTicks {
				c.log.Info("clock finished", "ticks", n)
				return
			}
		}
	}
}
