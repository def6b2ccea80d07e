// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

package hal

import (
	"log/slog"
	"time"

	"github.com/tinycore/firmware/pkg/gpio"
)

// GPIOResetter is a motionctl.Resetter that pulses a hard-reset line.
type GPIOResetter struct {
	chip, lineName string
	pulseWidth     time.Duration
	logger         *slog.Logger
}

// NewGPIOResetter returns a Resetter that pulses lineName on chip high for
// pulseWidth on every Reset call.
func NewGPIOResetter(chip, lineName string, pulseWidth time.Duration, logger *slog.Logger) *GPIOResetter {
	return &GPIOResetter{chip: chip, lineName: lineName, pulseWidth: pulseWidth, logger: logger}
}

// Reset pulses the reset line. Failures are logged, not returned, since the
// motionctl.Resetter interface is fire-and-forget: the handler slot that
// calls it has nowhere to report an error back to the command session.
func (r *GPIOResetter) Reset() {
	if err := gpio.PulseGPIO(r.chip, r.lineName, r.pulseWidth, gpio.AsOutput()); err != nil {
		r.logger.Error("hard reset pulse failed", "error", err)
	}
}

// GPIOBootloaderJumper is a motionctl.BootloaderJumper that latches a
// bootloader-select line high; the MCU reset that follows picks it up on
// the next boot.
type GPIOBootloaderJumper struct {
	chip, lineName string
	logger         *slog.Logger
}

// NewGPIOBootloaderJumper returns a BootloaderJumper driving lineName on
// chip.
func NewGPIOBootloaderJumper(chip, lineName string, logger *slog.Logger) *GPIOBootloaderJumper {
	return &GPIOBootloaderJumper{chip: chip, lineName: lineName, logger: logger}
}

// JumpToBootloader drives the bootloader-select line high.
func (j *GPIOBootloaderJumper) JumpToBootloader() {
	if err := gpio.SetGPIO(j.chip, j.lineName, 1, gpio.AsOutput()); err != nil {
		j.logger.Error("bootloader select failed", "error", err)
	}
}
