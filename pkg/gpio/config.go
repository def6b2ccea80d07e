// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

package gpio

import (
	"fmt"
	"time"
)

// Direction represents the GPIO line direction.
type Direction int

const (
	// DirectionInput configures the GPIO line as an input.
	DirectionInput Direction = iota
	// DirectionOutput configures the GPIO line as an output.
	DirectionOutput
)

// String returns the string representation of the Direction.
func (d Direction) String() string {
	switch d {
	case DirectionInput:
		return "Input"
	case DirectionOutput:
		return "Output"
	default:
		return fmt.Sprintf("Direction(%d)", d)
	}
}

// Bias represents the GPIO line bias setting.
type Bias int

const (
	// BiasDisabled disables internal pull-up/pull-down resistors.
	BiasDisabled Bias = iota
	// BiasPullUp enables internal pull-up resistor.
	BiasPullUp
	// BiasPullDown enables internal pull-down resistor.
	BiasPullDown
)

// String returns the string representation of the Bias.
func (b Bias) String() string {
	switch b {
	case BiasDisabled:
		return "Disabled"
	case BiasPullUp:
		return "Pull-Up"
	case BiasPullDown:
		return "Pull-Down"
	default:
		return fmt.Sprintf("Bias(%d)", b)
	}
}

// Edge represents GPIO edge detection settings.
type Edge int

const (
	// EdgeNone disables edge detection.
	EdgeNone Edge = iota
	// EdgeRising enables detection of rising edges.
	EdgeRising
	// EdgeFalling enables detection of falling edges.
	EdgeFalling
	// EdgeBoth enables detection of both rising and falling edges.
	EdgeBoth
)

// Drive represents the GPIO drive type.
type Drive int

const (
	// DrivePushPull configures the line for push-pull output.
	DrivePushPull Drive = iota
	// DriveOpenDrain configures the line for open-drain output.
	DriveOpenDrain
	// DriveOpenSource configures the line for open-source output.
	DriveOpenSource
)

// ActiveState represents whether the line is active high or low.
type ActiveState int

const (
	// ActiveHigh means logical high is represented by high voltage.
	ActiveHigh ActiveState = iota
	// ActiveLow means logical high is represented by low voltage.
	ActiveLow
)

// LineConfig holds the resolved configuration for a single requested line.
// Every field is populated by NewLineConfig's defaults and then overridden
// by whichever Options the caller passed to RequestLine/PulseGPIO/SetGPIO.
type LineConfig struct {
	Direction       Direction
	InitialValue    int
	Bias            Bias
	Edge            Edge
	Drive           Drive
	ActiveState     ActiveState
	DebouncePeriod  time.Duration
	Consumer        string
	EventBufferSize int
}

// Option configures a LineConfig built by NewLineConfig.
type Option interface {
	apply(*LineConfig)
}

type biasOption struct {
	bias Bias
}

func (o *biasOption) apply(lc *LineConfig) {
	lc.Bias = o.bias
}

// WithBias overrides the line's internal pull-up/pull-down resistor setting.
func WithBias(bias Bias) Option {
	return &biasOption{bias: bias}
}

// NewLineConfig builds a LineConfig from the control core's defaults
// (push-pull output, bias disabled, no edge detection, active high) and
// applies opts on top, in order.
func NewLineConfig(opts ...Option) LineConfig {
	lc := LineConfig{
		Direction:       DirectionOutput,
		InitialValue:    0,
		Bias:            BiasDisabled,
		Edge:            EdgeNone,
		Drive:           DrivePushPull,
		ActiveState:     ActiveHigh,
		Consumer:        "tinycore-firmware",
		EventBufferSize: 16,
	}

	for _, opt := range opts {
		opt.apply(&lc)
	}

	return lc
}
