// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

// Package gpio wraps github.com/warthog618/go-gpiocdev with the request/
// configure/release shape used throughout this firmware for the handful of
// digital lines the motion controller touches directly: the limit switch
// input, the alarm/status LED output, the reset line, and the bootloader
// jump line.
//
// # Key Concepts
//
// GPIO Chip: a character device such as /dev/gpiochip0 exposing a set of
// lines. GPIO Line: a single pin on that chip, requested by name and
// configured with a direction, bias, and initial value.
//
// # Basic Usage
//
// Request a line and operate on it directly through the returned
// *gpiocdev.Line:
//
//	line, err := gpio.RequestLine("/dev/gpiochip0", "limit-x",
//		gpio.AsInput(),
//		gpio.WithBias(gpio.BiasPullUp),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer line.Close()
//
//	value, err := line.Value()
//
// # One-shot Helpers
//
// For fire-and-forget operations the package releases the line for you:
//
//	// Pulse the reset line high for 50ms then low again.
//	err := gpio.PulseGPIO("/dev/gpiochip0", "mcu-reset", 50*time.Millisecond, gpio.AsOutput())
//
//	// Drive a line to a fixed level once.
//	err := gpio.SetGPIO("/dev/gpiochip0", "alarm-led", 1, gpio.AsOutputValue(1))
//
// # Error Handling
//
// Failures are wrapped in package sentinels so callers can branch without
// depending on gpiocdev's error types directly:
//
//	line, err := gpio.RequestLine("/dev/gpiochip0", "limit-x")
//	if err != nil {
//		switch {
//		case errors.Is(err, gpio.ErrChipNotFound):
//			log.Fatal("GPIO chip not available")
//		case errors.Is(err, gpio.ErrLineNotFound):
//			log.Fatal("GPIO line not found")
//		case errors.Is(err, gpio.ErrPermissionDenied):
//			log.Fatal("insufficient permissions for GPIO access")
//		default:
//			log.Fatalf("unexpected error: %v", err)
//		}
//	}
//
// # Platform Considerations
//
// Linux only (CONFIG_GPIO_CDEV). pkg/hal builds the motion controller's
// LimitSwitch, StatusLED, Resetter, and BootloaderJumper collaborators on
// top of this package for real hardware targets.
package gpio
