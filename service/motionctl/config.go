// SPDX-License-Identifier: BSD-3-Clause

package motionctl

import (
	"fmt"
	"log/slog"

	"github.com/tinycore/firmware/pkg/log"
)

// Config holds the motion controller's tunables and every external
// collaborator it is wired to. Gains/thresholds here are compile-time
// defaults, overridable from a TOML file via pkg/config.
type Config struct {
	ServiceName string

	// BuildID and PlatformID are the firmware build/version and hardware
	// platform identifiers recorded on the controller at construction
	// (spec §3), surfaced through status reporting. Optional.
	BuildID    string
	PlatformID string

	// PrimarySourceID, SecondarySourceID, and DefaultSourceID identify the
	// input sources the controller reports against (spec §3). Selecting
	// between them is the LineSource implementation's concern; these are
	// recorded for reporting only. Optional.
	PrimarySourceID   string
	SecondarySourceID string
	DefaultSourceID   string

	// LineBufferSize is the fixed maximum size of the input line buffer.
	LineBufferSize int
	// PlannerHeadroom is the minimum free planner-buffer count required
	// before the sync-to-planner handler lets the cycle continue.
	PlannerHeadroom int
	// TXLowWater is the serial TX occupancy at or above which the
	// sync-to-TX handler holds back the cycle.
	TXLowWater int

	AlarmBlinkHz  float64
	NormalBlinkHz float64

	// Logger receives every handler's fault and transition log lines.
	// Defaults to log.NewDefaultLogger if nil.
	Logger *slog.Logger

	// Collaborators. Required; New returns an error if any is nil.
	LineSource       LineSource
	GCodeParser      GCodeParser
	TextParser       TextParser
	JSONParser       JSONParser
	Planner          Planner
	Stepper          Stepper
	TXBuffer         TXBuffer
	LimitSwitch      LimitSwitch
	LED              StatusLED
	Resetter         Resetter
	BootloaderJumper BootloaderJumper

	// External pipeline callbacks. Optional; a nil callback is treated as
	// StatusNOOP, exercising its priority slot without doing any work.
	FeedholdSequencing Callback
	FeedholdPlanning   Callback
	ArcGenerator       Callback
	Homing             Callback
	Jogging            Callback
	Probe              Callback
	BaudRateUpdate     Callback
	StatusReport       StatusReporter
	QueueReport        QueueReporter
}

// DefaultConfig returns sane defaults for the tunables; every collaborator
// field is left nil and must be set by the caller.
func DefaultConfig() *Config {
	return &Config{
		ServiceName:     "motionctl",
		LineBufferSize:  256,
		PlannerHeadroom: 4,
		TXLowWater:      32,
		AlarmBlinkHz:    4,
		NormalBlinkHz:   0.5,
		Logger:          log.NewDefaultLogger(),
	}
}

// Validate checks that every required collaborator and tunable is set.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("%w: service name is required", ErrInvalidConfiguration)
	}
	if c.LineBufferSize <= 0 {
		return fmt.Errorf("%w: line buffer size must be positive", ErrInvalidConfiguration)
	}
	if c.PlannerHeadroom < 0 || c.TXLowWater < 0 {
		return fmt.Errorf("%w: headroom/low-water thresholds must be non-negative", ErrInvalidConfiguration)
	}
	required := map[string]bool{
		"LineSource":       c.LineSource != nil,
		"GCodeParser":      c.GCodeParser != nil,
		"TextParser":       c.TextParser != nil,
		"JSONParser":       c.JSONParser != nil,
		"Planner":          c.Planner != nil,
		"Stepper":          c.Stepper != nil,
		"TXBuffer":         c.TXBuffer != nil,
		"LimitSwitch":      c.LimitSwitch != nil,
		"LED":              c.LED != nil,
		"Resetter":         c.Resetter != nil,
		"BootloaderJumper": c.BootloaderJumper != nil,
	}
	for name, ok := range required {
		if !ok {
			return fmt.Errorf("%w: %s collaborator is required", ErrInvalidConfiguration, name)
		}
	}
	return nil
}
