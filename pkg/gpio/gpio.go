// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

package gpio

import (
	"errors"
	"fmt"
	"path/filepath"
	"syscall"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// RequestLine requests a single GPIO line with the specified configuration options.
// Returns a *gpiocdev.Line that can be used directly with the underlying library.
func RequestLine(chip, lineName string, opts ...Option) (*gpiocdev.Line, error) {
	if chip == "" {
		return nil, fmt.Errorf("%w: chip path cannot be empty", ErrOperationFailed)
	}
	if lineName == "" {
		return nil, fmt.Errorf("%w: line name cannot be empty", ErrOperationFailed)
	}

	if err := gpiocdev.IsChip(chip); err != nil {
		return nil, mapGpiocdevError(err, fmt.Sprintf("invalid chip path '%s'", chip))
	}

	foundChip, offset, err := gpiocdev.FindLine(lineName)
	if err != nil {
		return nil, mapGpiocdevError(err, fmt.Sprintf("failed to find line '%s'", lineName))
	}
	// Normalize device identifiers (path vs basename) before comparing.
	if filepath.Base(foundChip) != filepath.Base(chip) {
		return nil, fmt.Errorf("%w: line '%s' not found on chip '%s'", ErrLineNotFound, lineName, chip)
	}

	// Default consumer, allow caller to override by placing their option last.
	defaultOpts := []gpiocdev.LineReqOption{gpiocdev.WithConsumer("tinycore-firmware")}
	gpiocdevOpts := append(defaultOpts, convertOptions(opts)...)

	line, err := gpiocdev.RequestLine(chip, offset, gpiocdevOpts...)
	if err != nil {
		return nil, mapGpiocdevError(err, fmt.Sprintf("failed to request line '%s' from chip '%s'", lineName, chip))
	}

	return line, nil
}

// PulseGPIO drives a GPIO line high for the specified duration, then low.
// The line is automatically closed after the operation.
func PulseGPIO(chip, lineName string, duration time.Duration, opts ...Option) error {
	if duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidDuration)
	}

	line, err := RequestLine(chip, lineName, append(opts, AsOutput())...)
	if err != nil {
		return err
	}
	defer line.Close()

	if err := line.SetValue(1); err != nil {
		return fmt.Errorf("%w: failed to set GPIO high: %w", ErrOperationFailed, err)
	}

	time.Sleep(duration)

	if err := line.SetValue(0); err != nil {
		return fmt.Errorf("%w: failed to set GPIO low: %w", ErrOperationFailed, err)
	}

	return nil
}

// SetGPIO sets a GPIO line to the specified value.
// The line is automatically closed after the operation.
func SetGPIO(chip, lineName string, value int, opts ...Option) error {
	if value < 0 || value > 1 {
		return fmt.Errorf("%w: value must be 0 or 1", ErrInvalidValue)
	}

	line, err := RequestLine(chip, lineName, append(opts, AsOutputValue(value))...)
	if err != nil {
		return err
	}
	defer line.Close()

	return nil
}

// mapGpiocdevError maps gpiocdev errors to our package errors.
func mapGpiocdevError(err error, details string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, syscall.ENOENT):
		return fmt.Errorf("%w: %s", ErrChipNotFound, details)
	case errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EPERM):
		return fmt.Errorf("%w: %s", ErrPermissionDenied, details)
	case errors.Is(err, gpiocdev.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrLineNotFound, details)
	case errors.Is(err, gpiocdev.ErrClosed):
		return fmt.Errorf("%w: %s", ErrLineClosed, details)
	default:
		return fmt.Errorf("%w: %s: %w", ErrOperationFailed, details, err)
	}
}
