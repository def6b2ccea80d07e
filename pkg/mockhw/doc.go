// SPDX-License-Identifier: BSD-3-Clause

// Package mockhw provides in-memory, deterministic stand-ins for every
// narrow hardware-facing and external-collaborator interface named in
// service/motionctl and pkg/thermal. It mirrors the teacher's
// BackendTypeMock split in service/sensormon and service/powermgr: the same
// wiring code runs against mockhw in tests and in cmd/mock.
//
// The thermal-side mocks (PWM, ADC) satisfy pkg/thermal's interfaces
// structurally with no import of that package. The motion-side LineSource
// mock returns service/motionctl's own Status type, so this package imports
// service/motionctl one-way. motionctl's non-test code never imports mockhw,
// and only its external (motionctl_test) tests do; a test file in package
// motionctl itself cannot import mockhw without an import cycle.
package mockhw
