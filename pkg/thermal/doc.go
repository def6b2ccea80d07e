// SPDX-License-Identifier: BSD-3-Clause

// Package thermal implements the thermal-control primitives: the PID
// regulator, the sensor sampler, and the heater supervisor that drives them
// against a PWM-actuated heater. All three are plain Go values with no
// hidden global state; a service (see service/thermalctl) owns one of each
// and ticks them from its own schedule.
//
// The three pieces compose as: the heater supervisor's Tick, invoked every
// 100ms, asks the sensor for its last filtered reading, feeds it to the PID
// regulator, and applies the resulting duty cycle to the PWM output. The
// sensor's own Tick, invoked every 10ms, accumulates ADC samples into that
// reading.
package thermal
