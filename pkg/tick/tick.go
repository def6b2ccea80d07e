// SPDX-License-Identifier: BSD-3-Clause

// Package tick implements the control core's single hardware-timer analogue:
// one goroutine ticking at the base 10ms rate, collapsed to nothing more
// than flipping an atomic flag, the way an ISR would. All cascading into
// 100ms and 1s callbacks happens cooperatively in Callback.Run, invoked from
// the dispatch loop — never from the ticking goroutine itself. This mirrors
// thermalmgr's time.Ticker-driven loop in the teacher, narrowed to a single
// producer with no network fan-out.
package tick

import (
	"context"
	"sync/atomic"
	"time"
)

// Source is the periodic interrupt analogue: it sets a flag at BaseInterval
// and does nothing else. Run blocks until ctx is done.
type Source struct {
	BaseInterval time.Duration
	flag         atomic.Bool
}

// NewSource constructs a Source ticking at interval.
func NewSource(interval time.Duration) *Source {
	return &Source{BaseInterval: interval}
}

// Run drives the tick flag until ctx is canceled. Intended to run in its own
// supervised goroutine.
func (s *Source) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.BaseInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.flag.Store(true)
		}
	}
}

// Consume clears and returns the tick flag. Called from the cooperative
// dispatch loop, never from Run's goroutine.
func (s *Source) Consume() bool {
	return s.flag.CompareAndSwap(true, false)
}

// Callback cascades a base-rate tick into 100ms and 1s ticks using
// counters that count up to their ratio and reset, invoking
// Tick10ms/Tick100ms/Tick1sec as each rolls over.
// None of the three may block: each is one cooperatively-scheduled chunk of
// work.
type Callback struct {
	Tick10ms  func()
	Tick100ms func()
	Tick1sec  func()

	counter100ms int
	counter1sec  int
}

// Ratio100ms and Ratio1sec are the cascade ratios for a 10ms base tick.
const (
	Ratio100ms = 10
	Ratio1sec  = 100
)

// Run consumes a pending tick from src and cascades it. Returns true if a
// tick was processed, false if there was nothing to do (NOOP).
func (c *Callback) Run(src *Source) bool {
	if !src.Consume() {
		return false
	}

	if c.Tick10ms != nil {
		c.Tick10ms()
	}

	c.counter100ms++
	if c.counter100ms >= Ratio100ms {
		c.counter100ms = 0
		if c.Tick100ms != nil {
			c.Tick100ms()
		}

		c.counter1sec++
		if c.counter1sec >= Ratio1sec/Ratio100ms {
			c.counter1sec = 0
			if c.Tick1sec != nil {
				c.Tick1sec()
			}
		}
	}

	return true
}
