// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

package gpio

import (
	"github.com/warthog618/go-gpiocdev"
)

type directionValueOption struct {
	direction       Direction
	initialValue    int
	hasInitialValue bool
}

func (o *directionValueOption) apply(lc *LineConfig) {
	lc.Direction = o.direction
	if o.hasInitialValue {
		lc.InitialValue = o.initialValue
	}
}

// AsInput returns an Option requesting the line as an input.
func AsInput() Option {
	return &directionValueOption{direction: DirectionInput}
}

// AsOutput returns an Option requesting the line as an output with no
// explicit initial value (defaults to 0).
func AsOutput() Option {
	return &directionValueOption{direction: DirectionOutput}
}

// AsOutputValue returns an Option requesting the line as an output driven
// to the given initial value.
func AsOutputValue(value int) Option {
	return &directionValueOption{direction: DirectionOutput, initialValue: value, hasInitialValue: true}
}

// convertOptions resolves a set of Option values against NewLineConfig's
// defaults and translates the result into gpiocdev's request options.
func convertOptions(opts []Option) []gpiocdev.LineReqOption {
	return lineConfigToGpiocdevOptions(NewLineConfig(opts...))
}

func lineConfigToGpiocdevOptions(lc LineConfig) []gpiocdev.LineReqOption {
	var out []gpiocdev.LineReqOption

	if lc.Direction == DirectionOutput {
		out = append(out, gpiocdev.AsOutput(lc.InitialValue))
	} else {
		out = append(out, gpiocdev.AsInput)
	}

	switch lc.Bias {
	case BiasPullUp:
		out = append(out, gpiocdev.WithPullUp)
	case BiasPullDown:
		out = append(out, gpiocdev.WithPullDown)
	case BiasDisabled:
		out = append(out, gpiocdev.WithBiasDisabled)
	}

	switch lc.Edge {
	case EdgeRising:
		out = append(out, gpiocdev.WithRisingEdge)
	case EdgeFalling:
		out = append(out, gpiocdev.WithFallingEdge)
	case EdgeBoth:
		out = append(out, gpiocdev.WithBothEdges)
	}

	switch lc.Drive {
	case DriveOpenDrain:
		out = append(out, gpiocdev.AsOpenDrain)
	case DriveOpenSource:
		out = append(out, gpiocdev.AsOpenSource)
	case DrivePushPull:
		out = append(out, gpiocdev.AsPushPull)
	}

	if lc.ActiveState == ActiveLow {
		out = append(out, gpiocdev.AsActiveLow)
	}

	if lc.DebouncePeriod > 0 {
		out = append(out, gpiocdev.WithDebounce(lc.DebouncePeriod))
	}

	if lc.Consumer != "" {
		out = append(out, gpiocdev.WithConsumer(lc.Consumer))
	}

	return out
}
