// SPDX-License-Identifier: BSD-3-Clause

package thermalctl

import (
	"fmt"
	"time"

	"github.com/tinycore/firmware/pkg/thermal"
)

// Config holds everything needed to build an Owner. Gains, thresholds, and
// pin-equivalent parameters are compile-time defaults, overridable from a
// TOML file via pkg/config — the G-code `$`-settings store this mirrors is
// an external collaborator, not this configuration.
type Config struct {
	ServiceName string

	TickInterval time.Duration
	Setpoint     float64

	PID    thermal.PIDConfig
	Sensor thermal.SensorConfig
	Heater thermal.HeaterConfig
}

// Option configures a Config at construction time.
type Option func(*Config)

// WithServiceName sets the service's unique name.
func WithServiceName(name string) Option {
	return func(c *Config) { c.ServiceName = name }
}

// WithSetpoint sets the target temperature used on the next heater On.
func WithSetpoint(setpoint float64) Option {
	return func(c *Config) { c.Setpoint = setpoint }
}

// WithPID overrides the PID regulator configuration.
func WithPID(cfg thermal.PIDConfig) Option {
	return func(c *Config) { c.PID = cfg }
}

// WithSensor overrides the sensor sampler configuration.
func WithSensor(cfg thermal.SensorConfig) Option {
	return func(c *Config) { c.Sensor = cfg }
}

// WithHeater overrides the heater supervisor configuration.
func WithHeater(cfg thermal.HeaterConfig) Option {
	return func(c *Config) { c.Heater = cfg }
}

// DefaultConfig returns sane defaults for a single heater zone: a 10ms base
// tick, a 100ms heater/PID cadence, and thresholds loosely modeled on a 3D
// printer hotend (disconnect above 400C, no-power below -10C, ambient below
// 40C).
func DefaultConfig() *Config {
	return &Config{
		ServiceName:  "thermalctl",
		TickInterval: 10 * time.Millisecond,
		Setpoint:     200,
		PID: thermal.PIDConfig{
			Kp: 8, Ki: 0.3, Kd: 40,
			OutputMin: 0, OutputMax: 100,
			DT:      0.1,
			Epsilon: 0.05,
		},
		Sensor: thermal.SensorConfig{
			Channel:                0,
			Slope:                  1.0,
			Offset:                 0,
			SamplesPerReading:      10,
			Variance:               15,
			Retries:                3,
			DisconnectTemperature:  400,
			NoPowerTemperature:     -10,
			HotSentinelTemperature: 999999,
		},
		Heater: thermal.HeaterConfig{
			PWMFrequency:        1000,
			TickInterval:        100 * time.Millisecond,
			AmbientTimeout:      30 * time.Second,
			RegulationTimeout:   120 * time.Second,
			AmbientTemperature:  40,
			OverheatTemperature: 280,
		},
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("%w: service name is required", ErrInvalidConfiguration)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: tick interval must be positive", ErrInvalidConfiguration)
	}
	if err := c.PID.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	if err := c.Sensor.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	if err := c.Heater.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	return nil
}
