// SPDX-License-Identifier: BSD-3-Clause

package thermal

import (
	"fmt"
	"math"

	"github.com/tinycore/firmware/pkg/assert"
)

// PIDRunState is whether the regulator is actively computing output.
type PIDRunState int

const (
	// PIDOff makes Calculate always return 0.
	PIDOff PIDRunState = iota
	// PIDOn runs the full proportional/integral/derivative computation.
	PIDOn
)

// PIDConfig holds the gains and bounds for a PID regulator. dt is fixed
// rather than measured from wall-clock time: the regulator is always driven
// from a 100ms heater tick, so the interval is a compile-time constant of
// the control loop, not something to re-derive on every call.
type PIDConfig struct {
	Kp, Ki, Kd float64
	OutputMin  float64
	OutputMax  float64
	// DT is the fixed time step between Calculate calls, in seconds.
	DT float64
	// Epsilon is the anti-windup dead zone: integration is skipped while
	// |error| < Epsilon.
	Epsilon float64
	// StrictAntiWindup additionally suppresses integration when the last
	// output was saturated in the same direction as the current error, the
	// stricter form the source carried but left disabled. Off by default.
	StrictAntiWindup bool
}

// Validate checks the configuration for obviously-broken values.
func (c PIDConfig) Validate() error {
	if c.OutputMin > c.OutputMax {
		return fmt.Errorf("%w: output_min > output_max", ErrInvalidPIDConfig)
	}
	if c.DT <= 0 {
		return fmt.Errorf("%w: dt must be positive", ErrInvalidPIDConfig)
	}
	if c.Epsilon < 0 {
		return fmt.Errorf("%w: epsilon must be non-negative", ErrInvalidPIDConfig)
	}
	return nil
}

// PID is a bounded PID regulator with anti-windup. Calculate is the only
// method that matters to a caller driving the control loop; On/Off/Reset
// manage its run state across heater transitions.
type PID struct {
	cfg        PIDConfig
	state      PIDRunState
	lastOutput float64
	integral   float64
	prevError  float64
	sentinel   assert.Sentinel
}

// NewPID constructs a PID in the Off state with a fresh integrity sentinel.
func NewPID(cfg PIDConfig) (*PID, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &PID{cfg: cfg, sentinel: assert.NewSentinel()}, nil
}

// On enables output computation. Does not reset accumulated state; callers
// that want a clean start (e.g. HeaterOn) should call Reset first.
func (p *PID) On() { p.state = PIDOn }

// Off disables output computation; Calculate returns 0 until On is called
// again.
func (p *PID) Off() { p.state = PIDOff }

// Reset zeroes the integral accumulator and the previous-error term. Used on
// every HEATER_ON transition so a stale integral never leaks into a new run.
func (p *PID) Reset() {
	p.integral = 0
	p.prevError = 0
}

// Calculate computes a bounded output from the setpoint and the measured
// value, using the fixed DT from PIDConfig.
func (p *PID) Calculate(setpoint, measured float64) float64 {
	if p.state == PIDOff {
		return 0
	}

	err := setpoint - measured
	if math.Abs(err) > p.cfg.Epsilon {
		suppress := false
		if p.cfg.StrictAntiWindup {
			saturatedHigh := p.lastOutput >= p.cfg.OutputMax-p.cfg.Epsilon
			saturatedLow := p.lastOutput <= p.cfg.OutputMin+p.cfg.Epsilon
			suppress = (saturatedHigh && err > 0) || (saturatedLow && err < 0)
		}
		if !suppress {
			p.integral += err * p.cfg.DT
		}
	}

	derivative := (err - p.prevError) / p.cfg.DT
	raw := p.cfg.Kp*err + p.cfg.Ki*p.integral + p.cfg.Kd*derivative

	output := raw
	if output < p.cfg.OutputMin {
		output = p.cfg.OutputMin
	} else if output > p.cfg.OutputMax {
		output = p.cfg.OutputMax
	}

	p.prevError = err
	p.lastOutput = output
	return output
}

// State returns the regulator's current run state.
func (p *PID) State() PIDRunState { return p.state }

// LastOutput returns the most recently computed (already-clamped) output.
func (p *PID) LastOutput() float64 { return p.lastOutput }

// Sentinel returns the regulator's integrity sentinel for registration with
// an assert.Monitor.
func (p *PID) Sentinel() assert.Sentinel { return p.sentinel }
