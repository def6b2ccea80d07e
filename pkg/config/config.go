// SPDX-License-Identifier: BSD-3-Clause

// Package config loads the control core's compile-time defaults from a TOML
// file, the way tools/configure loads platform configuration in the
// teacher's build: a typed struct with `toml` tags, decoded with
// github.com/BurntSushi/toml and then applied on top of the package-level
// DefaultConfig() values via functional options. Top-level fields left unset
// in the file keep their compiled-in default rather than being zeroed. A
// [thermal.pid], [thermal.sensor] or [thermal.heater] table present in the
// file replaces that whole block, so fields it leaves out are zero.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tinycore/firmware/pkg/thermal"
	"github.com/tinycore/firmware/service/motionctl"
	"github.com/tinycore/firmware/service/thermalctl"
)

// Thermal holds the TOML representation of a thermalctl.Config. Durations
// are given in milliseconds since TOML has no native duration type.
type Thermal struct {
	ServiceName     string  `toml:"service_name"`
	TickIntervalMS  int64   `toml:"tick_interval_ms"`
	SetpointCelsius float64 `toml:"setpoint_celsius"`

	PID    *PID    `toml:"pid"`
	Sensor *Sensor `toml:"sensor"`
	Heater *Heater `toml:"heater"`
}

// PID holds the TOML representation of a thermal.PIDConfig.
type PID struct {
	Kp        float64 `toml:"kp"`
	Ki        float64 `toml:"ki"`
	Kd        float64 `toml:"kd"`
	OutputMin float64 `toml:"output_min"`
	OutputMax float64 `toml:"output_max"`
	DT        float64 `toml:"dt_seconds"`
	Epsilon   float64 `toml:"epsilon"`
	StrictAW  bool    `toml:"strict_anti_windup"`
}

// Sensor holds the TOML representation of a thermal.SensorConfig.
type Sensor struct {
	Channel                int     `toml:"channel"`
	Slope                  float64 `toml:"slope"`
	Offset                 float64 `toml:"offset"`
	SamplesPerReading      int     `toml:"samples_per_reading"`
	Variance               float64 `toml:"variance"`
	Retries                int     `toml:"retries"`
	DisconnectTemperature  float64 `toml:"disconnect_temperature"`
	NoPowerTemperature     float64 `toml:"no_power_temperature"`
	HotSentinelTemperature float64 `toml:"hot_sentinel_temperature"`
}

// Heater holds the TOML representation of a thermal.HeaterConfig. Durations
// are given in milliseconds.
type Heater struct {
	PWMFrequency        float64 `toml:"pwm_frequency"`
	TickIntervalMS      int64   `toml:"tick_interval_ms"`
	AmbientTimeoutMS    int64   `toml:"ambient_timeout_ms"`
	RegulationTimeoutMS int64   `toml:"regulation_timeout_ms"`
	AmbientTemperature  float64 `toml:"ambient_temperature"`
	OverheatTemperature float64 `toml:"overheat_temperature"`
}

// Motion holds the TOML representation of the tunable (non-collaborator)
// fields of a motionctl.Config.
type Motion struct {
	ServiceName       string  `toml:"service_name"`
	BuildID           string  `toml:"build_id"`
	PlatformID        string  `toml:"platform_id"`
	PrimarySourceID   string  `toml:"primary_source_id"`
	SecondarySourceID string  `toml:"secondary_source_id"`
	DefaultSourceID   string  `toml:"default_source_id"`
	LineBufferSize    int     `toml:"line_buffer_size"`
	PlannerHeadroom   int     `toml:"planner_headroom"`
	TXLowWater        int     `toml:"tx_low_water"`
	AlarmBlinkHz      float64 `toml:"alarm_blink_hz"`
	NormalBlinkHz     float64 `toml:"normal_blink_hz"`
}

// File is the top-level TOML document: a [thermal] table and a [motion]
// table, both optional. A zero-value File changes nothing when applied.
type File struct {
	Thermal *Thermal `toml:"thermal"`
	Motion  *Motion  `toml:"motion"`
}

// Load decodes path into a File. A missing or malformed file is an error;
// callers that want to tolerate a missing override file should check
// os.IsNotExist themselves before calling Load.
func Load(path string) (*File, error) {
	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	return &f, nil
}

// ApplyThermal returns thermalctl.Options that override DefaultConfig with
// every field set in f.Thermal. A non-nil PID, Sensor or Heater sub-table
// replaces the whole corresponding block, zero fields included. Calling
// ApplyThermal on a nil f or a nil f.Thermal returns no options.
func (f *File) ApplyThermal() []thermalctl.Option {
	if f == nil || f.Thermal == nil {
		return nil
	}
	t := f.Thermal
	var opts []thermalctl.Option

	if t.ServiceName != "" {
		opts = append(opts, thermalctl.WithServiceName(t.ServiceName))
	}
	if t.SetpointCelsius != 0 {
		opts = append(opts, thermalctl.WithSetpoint(t.SetpointCelsius))
	}
	if t.TickIntervalMS != 0 {
		interval := time.Duration(t.TickIntervalMS) * time.Millisecond
		opts = append(opts, func(c *thermalctl.Config) { c.TickInterval = interval })
	}
	if t.PID != nil {
		p := t.PID
		opts = append(opts, thermalctl.WithPID(thermal.PIDConfig{
			Kp: p.Kp, Ki: p.Ki, Kd: p.Kd,
			OutputMin: p.OutputMin, OutputMax: p.OutputMax,
			DT: p.DT, Epsilon: p.Epsilon, StrictAntiWindup: p.StrictAW,
		}))
	}
	if t.Sensor != nil {
		s := t.Sensor
		opts = append(opts, thermalctl.WithSensor(thermal.SensorConfig{
			Channel:                s.Channel,
			Slope:                  s.Slope,
			Offset:                 s.Offset,
			SamplesPerReading:      s.SamplesPerReading,
			Variance:               s.Variance,
			Retries:                s.Retries,
			DisconnectTemperature:  s.DisconnectTemperature,
			NoPowerTemperature:     s.NoPowerTemperature,
			HotSentinelTemperature: s.HotSentinelTemperature,
		}))
	}
	if t.Heater != nil {
		h := t.Heater
		opts = append(opts, thermalctl.WithHeater(thermal.HeaterConfig{
			PWMFrequency:        h.PWMFrequency,
			TickInterval:        time.Duration(h.TickIntervalMS) * time.Millisecond,
			AmbientTimeout:      time.Duration(h.AmbientTimeoutMS) * time.Millisecond,
			RegulationTimeout:   time.Duration(h.RegulationTimeoutMS) * time.Millisecond,
			AmbientTemperature:  h.AmbientTemperature,
			OverheatTemperature: h.OverheatTemperature,
		}))
	}
	return opts
}

// ApplyMotion overrides the tunable fields of cfg in place with every field
// set in f.Motion. Collaborators (LineSource, Planner, and so on) are never
// touched; those are wired by the caller. Calling ApplyMotion with a nil f
// or a nil f.Motion leaves cfg unchanged.
func (f *File) ApplyMotion(cfg *motionctl.Config) {
	if f == nil || f.Motion == nil || cfg == nil {
		return
	}
	m := f.Motion

	if m.ServiceName != "" {
		cfg.ServiceName = m.ServiceName
	}
	if m.BuildID != "" {
		cfg.BuildID = m.BuildID
	}
	if m.PlatformID != "" {
		cfg.PlatformID = m.PlatformID
	}
	if m.PrimarySourceID != "" {
		cfg.PrimarySourceID = m.PrimarySourceID
	}
	if m.SecondarySourceID != "" {
		cfg.SecondarySourceID = m.SecondarySourceID
	}
	if m.DefaultSourceID != "" {
		cfg.DefaultSourceID = m.DefaultSourceID
	}
	if m.LineBufferSize != 0 {
		cfg.LineBufferSize = m.LineBufferSize
	}
	if m.PlannerHeadroom != 0 {
		cfg.PlannerHeadroom = m.PlannerHeadroom
	}
	if m.TXLowWater != 0 {
		cfg.TXLowWater = m.TXLowWater
	}
	if m.AlarmBlinkHz != 0 {
		cfg.AlarmBlinkHz = m.AlarmBlinkHz
	}
	if m.NormalBlinkHz != 0 {
		cfg.NormalBlinkHz = m.NormalBlinkHz
	}
}
