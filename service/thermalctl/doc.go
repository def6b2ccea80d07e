// SPDX-License-Identifier: BSD-3-Clause

// Package thermalctl wires pkg/thermal's PID regulator, sensor sampler, and
// heater supervisor into a runnable service.Service: a tick source drives a
// cooperative dispatch loop that samples the sensor every 10ms, drives the
// heater every 100ms, and checks the integrity monitor every cycle, exactly
// mirroring the motion controller's mini-HSM but with a fixed two-entry
// schedule instead of a 19-entry priority list.
//
// # Basic usage
//
//	owner, err := thermalctl.New(thermalctl.DefaultConfig(), pwm, adc, logger)
//	if err != nil {
//		return err
//	}
//	return owner.Run(ctx)
//
// # Safety
//
// A failed integrity check (pkg/assert) stops Run with an error; the
// process supervisor in cmd/mock restarts the service, which re-arms the
// heater from OFF rather than resuming a possibly-corrupted state.
package thermalctl
