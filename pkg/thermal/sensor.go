// SPDX-License-Identifier: BSD-3-Clause

package thermal

import (
	"context"
	"fmt"
	"math"

	"github.com/tinycore/firmware/pkg/assert"
)

// ADC is the narrow interface the sensor sampler reads raw counts through.
// The only implementation in this module is pkg/mockhw's in-memory stand-in,
// used by tests and the mock entrypoint.
type ADC interface {
	Read(ctx context.Context, channel int) (raw float64, err error)
}

// SensorState is the sensor sampler's observed lifecycle state.
type SensorState int

const (
	SensorOff SensorState = iota
	SensorNoData
	SensorReading
	SensorHasData
	SensorShutdown
)

func (s SensorState) String() string {
	switch s {
	case SensorOff:
		return "OFF"
	case SensorNoData:
		return "NO_DATA"
	case SensorReading:
		return "READING"
	case SensorHasData:
		return "HAS_DATA"
	case SensorShutdown:
		return "SHUTDOWN"
	default:
		return "UNKNOWN"
	}
}

// SensorCode is the subreason behind the current SensorState.
type SensorCode int

const (
	CodeNone SensorCode = iota
	CodeReadingComplete
	CodeReadingFailedBadReadings
	CodeReadingFailedDisconnected
	CodeReadingFailedNoPower
)

// SensorConfig holds the sampling and classification parameters for one
// sensor channel.
type SensorConfig struct {
	Channel           int
	Slope             float64
	Offset            float64
	SamplesPerReading int
	// Variance is the maximum allowed delta between a sample and the
	// previous accepted sample; rejection is a one-deep predecessor
	// comparison, not an absolute envelope.
	Variance float64
	Retries  int

	DisconnectTemperature float64
	NoPowerTemperature    float64
	// HotSentinelTemperature is returned by GetTemperature whenever the
	// sensor is not in HAS_DATA, deliberately hot enough to guarantee a
	// downstream heater shutdown if anything reads it as a real
	// temperature. This preserves the source's code behavior over any
	// comment suggesting an absolute-zero sentinel instead.
	HotSentinelTemperature float64
}

// Validate checks the configuration for obviously-broken values.
func (c SensorConfig) Validate() error {
	if c.SamplesPerReading < 1 {
		return fmt.Errorf("%w: samples_per_reading must be >= 1", ErrInvalidSensorConfig)
	}
	if c.Retries < 0 {
		return fmt.Errorf("%w: retries must be >= 0", ErrInvalidSensorConfig)
	}
	if c.Variance <= 0 {
		return fmt.Errorf("%w: variance must be positive", ErrInvalidSensorConfig)
	}
	return nil
}

// Sensor accumulates ADC samples into one filtered temperature reading per
// period, rejecting outliers against the previous accepted sample.
type Sensor struct {
	cfg SensorConfig
	adc ADC

	state SensorState
	code  SensorCode

	samples     int
	accumulator float64
	filtered    float64
	previous    float64
	// done latches once a period has been classified (HAS_DATA or
	// NO_DATA); StartReading clears it to open the next period. This is
	// the "code indicates reading is already complete" gate from the
	// algorithm, tracked as its own flag rather than overloaded onto code
	// so a caller can still read the last classification after the gate
	// closes.
	done bool

	sentinel assert.Sentinel
}

// NewSensor constructs a Sensor reading from adc, starting OFF.
func NewSensor(cfg SensorConfig, adc ADC) (*Sensor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Sensor{
		cfg:      cfg,
		adc:      adc,
		state:    SensorOff,
		sentinel: assert.NewSentinel(),
	}, nil
}

// StartReading resets the sample counter and reopens the period for
// accumulation. Idempotent: calling it twice in a row has the same effect as
// calling it once.
func (s *Sensor) StartReading() {
	s.samples = 0
	s.accumulator = 0
	s.done = false
}

// On transitions the sensor out of OFF/SHUTDOWN so Tick begins accumulating.
func (s *Sensor) On() {
	s.state = SensorNoData
	s.StartReading()
}

// Off is idempotent: calling it repeatedly leaves the sensor OFF.
func (s *Sensor) Off() {
	s.state = SensorOff
	s.code = CodeNone
}

// State returns the sensor's current lifecycle state.
func (s *Sensor) State() SensorState { return s.state }

// Code returns the subreason behind the current state.
func (s *Sensor) Code() SensorCode { return s.code }

// GetTemperature returns the last filtered reading if the sensor is in
// HAS_DATA, otherwise the hot sentinel that guarantees any downstream
// consumer treats the reading as unsafe.
func (s *Sensor) GetTemperature() float64 {
	if s.state == SensorHasData {
		return s.filtered
	}
	return s.cfg.HotSentinelTemperature
}

// Tick runs one sampling step, invoked on every 10ms tick. ctx bounds the
// ADC reads; a context error is treated the same as a rejected sample.
func (s *Sensor) Tick(ctx context.Context) {
	if s.state == SensorOff || s.state == SensorShutdown {
		return
	}
	if s.done {
		return
	}

	newPeriod := s.samples == 0
	if newPeriod {
		s.accumulator = 0
		s.state = SensorReading
	}

	sample, accepted := s.drawSample(ctx, newPeriod)
	if !accepted {
		for i := 0; i < s.cfg.Retries && !accepted; i++ {
			sample, accepted = s.drawSample(ctx, newPeriod)
		}
		if !accepted {
			s.code = CodeReadingFailedBadReadings
			s.state = SensorNoData
			s.done = true
			return
		}
	}

	s.previous = sample
	s.accumulator += sample
	s.samples++

	if s.samples < s.cfg.SamplesPerReading {
		return
	}

	filtered := s.accumulator / float64(s.samples)
	s.filtered = filtered
	switch {
	case filtered > s.cfg.DisconnectTemperature:
		s.code = CodeReadingFailedDisconnected
		s.state = SensorNoData
	case filtered < s.cfg.NoPowerTemperature:
		s.code = CodeReadingFailedNoPower
		s.state = SensorNoData
	default:
		s.code = CodeReadingComplete
		s.state = SensorHasData
	}
	s.done = true
}

// drawSample reads one raw ADC value, converts it via the affine
// calibration, and reports whether it is accepted: unconditionally on the
// first sample of a period, otherwise only if it falls within Variance of
// the previous accepted sample.
func (s *Sensor) drawSample(ctx context.Context, newPeriod bool) (float64, bool) {
	raw, err := s.adc.Read(ctx, s.cfg.Channel)
	if err != nil {
		return 0, false
	}
	sample := raw*s.cfg.Slope + s.cfg.Offset
	if newPeriod {
		return sample, true
	}
	return sample, math.Abs(sample-s.previous) < s.cfg.Variance
}

// Sentinel returns the sensor's integrity sentinel for registration with an
// assert.Monitor.
func (s *Sensor) Sentinel() assert.Sentinel { return s.sentinel }
