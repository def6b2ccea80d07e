// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

// Package hal adapts pkg/gpio's character-device lines to the narrow
// collaborator interfaces service/motionctl depends on: LimitSwitch,
// StatusLED, Resetter, and BootloaderJumper. It is the only place in this
// module that touches real Linux GPIO hardware; everything above it talks
// to interfaces, and cmd/mock wires in-memory fakes instead for development
// without a board attached.
package hal
