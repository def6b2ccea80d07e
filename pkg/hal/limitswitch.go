// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

package hal

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/tinycore/firmware/pkg/gpio"
)

// GPIOLimitSwitch is a motionctl.LimitSwitch backed by a pulled-up GPIO
// input line. The line is polled on its own goroutine (started by Run) that
// only ever latches an atomic.Bool, matching the single-producer /
// single-consumer discipline the dispatcher relies on.
type GPIOLimitSwitch struct {
	line         *gpiocdev.Line
	pollInterval time.Duration
	logger       *slog.Logger

	thrown atomic.Bool
}

// NewGPIOLimitSwitch requests lineName on chip as an input with an internal
// pull-up, so an unthrown switch reads high and a thrown switch shorts to
// ground.
func NewGPIOLimitSwitch(chip, lineName string, pollInterval time.Duration, logger *slog.Logger) (*GPIOLimitSwitch, error) {
	line, err := gpio.RequestLine(chip, lineName, gpio.AsInput(), gpio.WithBias(gpio.BiasPullUp))
	if err != nil {
		return nil, fmt.Errorf("hal: request limit switch line %q: %w", lineName, err)
	}
	return &GPIOLimitSwitch{line: line, pollInterval: pollInterval, logger: logger}, nil
}

// Thrown reports whether the switch has tripped since the last Clear.
func (s *GPIOLimitSwitch) Thrown() bool {
	return s.thrown.Load()
}

// Clear resets the latch once the dispatcher has acted on a trip.
func (s *GPIOLimitSwitch) Clear() {
	s.thrown.Store(false)
}

// Run polls the line until ctx is canceled. Intended to be started as its
// own supervised goroutine alongside the dispatch loop.
func (s *GPIOLimitSwitch) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			value, err := s.line.Value()
			if err != nil {
				s.logger.Error("limit switch read failed", "error", err)
				continue
			}
			if value == 0 {
				s.thrown.Store(true)
			}
		}
	}
}

// Close releases the underlying GPIO line.
func (s *GPIOLimitSwitch) Close() error {
	return s.line.Close()
}
