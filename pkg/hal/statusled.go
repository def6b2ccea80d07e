// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

package hal

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/tinycore/firmware/pkg/gpio"
)

const idlePollInterval = 50 * time.Millisecond

// GPIOStatusLED is a motionctl.StatusLED backed by a GPIO output. Run drives
// the actual toggling on its own goroutine; SetBlinkRate only stores the
// requested rate atomically, preserving the dispatcher's non-blocking
// contract.
type GPIOStatusLED struct {
	line     *gpiocdev.Line
	logger   *slog.Logger
	rateBits atomic.Uint64
}

// NewGPIOStatusLED requests lineName on chip as an output, initially low.
func NewGPIOStatusLED(chip, lineName string, logger *slog.Logger) (*GPIOStatusLED, error) {
	line, err := gpio.RequestLine(chip, lineName, gpio.AsOutputValue(0))
	if err != nil {
		return nil, fmt.Errorf("hal: request status LED line %q: %w", lineName, err)
	}
	return &GPIOStatusLED{line: line, logger: logger}, nil
}

// SetBlinkRate sets the blink frequency in Hz. A rate <= 0 holds the LED
// off.
func (l *GPIOStatusLED) SetBlinkRate(hz float64) {
	l.rateBits.Store(math.Float64bits(hz))
}

func (l *GPIOStatusLED) rate() float64 {
	return math.Float64frombits(l.rateBits.Load())
}

// Run toggles the line at twice the requested blink rate until ctx is
// canceled.
func (l *GPIOStatusLED) Run(ctx context.Context) error {
	value := 0
	for {
		hz := l.rate()
		wait := idlePollInterval
		if hz > 0 {
			wait = time.Duration(float64(time.Second) / (2 * hz))
		} else if value != 0 {
			value = 0
			if err := l.line.SetValue(value); err != nil {
				l.logger.Error("status LED set failed", "error", err)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		if l.rate() <= 0 {
			continue
		}
		value = 1 - value
		if err := l.line.SetValue(value); err != nil {
			l.logger.Error("status LED set failed", "error", err)
		}
	}
}

// Close releases the underlying GPIO line.
func (l *GPIOStatusLED) Close() error {
	return l.line.Close()
}
