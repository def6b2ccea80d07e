// SPDX-License-Identifier: BSD-3-Clause

package thermal

import (
	"context"
	"fmt"
	"time"

	"github.com/tinycore/firmware/pkg/assert"
)

// PWM is the narrow interface the heater supervisor drives the actuator
// through. Frequency is clamped to the backend's supported range; duty is
// clamped to [0,100] with 0 mapping to output-low and 100 to output-high.
type PWM interface {
	On(freq, duty float64) error
	Off() error
	SetFreq(freq float64) error
	SetDuty(duty float64) error
}

// HeaterState is the heater supervisor's linear lifecycle.
type HeaterState int

const (
	HeaterOff HeaterState = iota
	HeaterHeating
	HeaterAtTarget
	HeaterShutdown
)

func (s HeaterState) String() string {
	switch s {
	case HeaterOff:
		return "OFF"
	case HeaterHeating:
		return "HEATING"
	case HeaterAtTarget:
		return "AT_TARGET"
	case HeaterShutdown:
		return "SHUTDOWN"
	default:
		return "UNKNOWN"
	}
}

// HeaterCode is the subreason behind a HeaterShutdown transition.
type HeaterCode int

const (
	HeaterCodeNone HeaterCode = iota
	HeaterCodeAmbientTimedOut
	HeaterCodeRegulationTimedOut
	HeaterCodeOverheat
	HeaterCodeExplicitOff
)

// HeaterConfig holds the supervisory thresholds for one heater zone.
type HeaterConfig struct {
	PWMFrequency float64
	// TickInterval is the heater's own tick period (100ms in the control
	// core) — the amount the regulation timer advances per Tick call.
	TickInterval       time.Duration
	AmbientTimeout     time.Duration
	RegulationTimeout  time.Duration
	AmbientTemperature float64
	// OverheatTemperature is an explicit threshold checked against every
	// fresh reading in addition to the hot-sentinel path the sensor itself
	// exercises on read failure.
	OverheatTemperature float64
}

// Validate checks the configuration for obviously-broken values.
func (c HeaterConfig) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: tick_interval must be positive", ErrInvalidHeaterConfig)
	}
	if c.AmbientTimeout <= 0 || c.RegulationTimeout <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidHeaterConfig)
	}
	return nil
}

// Heater drives a PID regulator and a sensor sampler against a PWM-actuated
// heater, enforcing ambient and regulation timeouts and an explicit overheat
// cutoff. Shutdown is sticky: only On can re-enable a heater that has
// shut down, matching the invariant that HEATING never overlaps a SHUTDOWN
// or OFF sensor.
type Heater struct {
	cfg HeaterConfig
	pwm PWM
	pid *PID
	sns *Sensor

	state           HeaterState
	code            HeaterCode
	setpoint        float64
	currentTemp     float64
	regulationTimer time.Duration

	sentinel assert.Sentinel
}

// NewHeater constructs a Heater in the OFF state.
func NewHeater(cfg HeaterConfig, pwm PWM, pid *PID, sns *Sensor) (*Heater, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Heater{
		cfg:      cfg,
		pwm:      pwm,
		pid:      pid,
		sns:      sns,
		sentinel: assert.NewSentinel(),
	}, nil
}

// On arms the heater at the given setpoint. No-op (idempotent) if the heater
// is already HEATING or AT_TARGET.
func (h *Heater) On(setpoint float64) error {
	if h.state == HeaterHeating || h.state == HeaterAtTarget {
		return nil
	}

	h.sns.On()
	h.pid.Reset()
	h.pid.On()
	if err := h.pwm.On(h.cfg.PWMFrequency, 0); err != nil {
		return fmt.Errorf("heater on: %w", ErrPWMWrite)
	}

	h.setpoint = setpoint
	h.state = HeaterHeating
	h.code = HeaterCodeNone
	h.regulationTimer = 0
	return nil
}

// Off disables the PWM output and the sensor and records the given state and
// code. Used for both a normal explicit off and a fault shutdown.
func (h *Heater) Off(newState HeaterState, code HeaterCode) error {
	h.pid.Off()
	h.sns.Off()
	h.state = newState
	h.code = code
	if err := h.pwm.Off(); err != nil {
		return fmt.Errorf("heater off: %w", ErrPWMWrite)
	}
	return nil
}

// Tick runs one heater supervision step, invoked on every 100ms tick.
func (h *Heater) Tick(ctx context.Context) error {
	if h.state == HeaterOff || h.state == HeaterShutdown {
		return nil
	}

	// Request a sensor reading: this both reads the classification the
	// sensor's own 10ms ticks produced for the window that just closed,
	// and reopens the next window for accumulation.
	priorState := h.sns.State()
	h.sns.StartReading()

	if priorState != SensorHasData {
		return nil
	}

	temp := h.sns.GetTemperature()
	h.currentTemp = temp

	duty := h.pid.Calculate(h.setpoint, temp)
	if err := h.pwm.SetDuty(duty); err != nil {
		return fmt.Errorf("heater tick: %w", ErrPWMWrite)
	}

	if temp >= h.cfg.OverheatTemperature {
		return h.Off(HeaterShutdown, HeaterCodeOverheat)
	}

	if h.state == HeaterHeating {
		h.regulationTimer += h.cfg.TickInterval
		switch {
		case temp < h.cfg.AmbientTemperature && h.regulationTimer > h.cfg.AmbientTimeout:
			return h.Off(HeaterShutdown, HeaterCodeAmbientTimedOut)
		case temp < h.setpoint && h.regulationTimer > h.cfg.RegulationTimeout:
			return h.Off(HeaterShutdown, HeaterCodeRegulationTimedOut)
		case temp >= h.setpoint:
			h.state = HeaterAtTarget
		}
	}

	return nil
}

// State returns the heater's current lifecycle state.
func (h *Heater) State() HeaterState { return h.state }

// Code returns the subreason behind the current state.
func (h *Heater) Code() HeaterCode { return h.code }

// Temperature returns the last temperature observed by Tick.
func (h *Heater) Temperature() float64 { return h.currentTemp }

// Sentinel returns the heater's integrity sentinel for registration with an
// assert.Monitor.
func (h *Heater) Sentinel() assert.Sentinel { return h.sentinel }
