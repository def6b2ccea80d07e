// SPDX-License-Identifier: BSD-3-Clause

package motionctl

// The interfaces below are the narrow seams to every external collaborator
// named in the motion controller's scope: the G-code/text/JSON parsers, the
// planner's backpressure signal, the stepper's power gate, the line reader,
// and the motion-pipeline callbacks (feedhold, arc, homing, jog, probe,
// status/queue reporting, baud-rate update). None of their internals are
// this package's concern — only enough surface to slot them into the
// priority list at the right position.

// LineSource is the non-blocking line reader (the XIO layer in the source
// lineage). Mirrors the cooperative-continuation discipline: ReadLine
// returns StatusEAGAIN if a line is not yet complete.
type LineSource interface {
	ReadLine(buf []byte) (n int, status Status, err error)
	ResetToDefault()
}

// GCodeParser consumes one complete G-code line.
type GCodeParser interface {
	ParseGCode(line []byte) (response []byte, err error)
}

// TextParser consumes one complete text-mode admin command line.
type TextParser interface {
	ParseText(line []byte) (response []byte, err error)
}

// JSONParser consumes one complete JSON command line.
type JSONParser interface {
	ParseJSON(line []byte) (response []byte, err error)
}

// Planner reports free planner-buffer headroom for backpressure.
type Planner interface {
	FreeBufferCount() int
}

// Stepper is the stepper motor power gate.
type Stepper interface {
	SetPower(enabled bool) error
}

// TXBuffer reports serial transmit backpressure.
type TXBuffer interface {
	Occupancy() int
}

// Callback is a no-argument external collaborator invoked at a fixed
// priority slot (feedhold sequencing/planning, arc generation, homing,
// jogging, probing, baud-rate update). Each must obey the same
// cooperative-continuation contract as every other handler.
type Callback func() (Status, error)

// StatusReporter and QueueReporter are the status/queue report callbacks;
// their content generation is out of scope, but the priority slots they
// occupy are exercised end-to-end.
type StatusReporter func() (Status, error)
type QueueReporter func() (Status, error)

// LimitSwitch reports whether a limit switch has been thrown since the last
// Clear; Thrown only reads the latch and Clear resets it.
type LimitSwitch interface {
	Thrown() bool
	Clear()
}

// StatusLED drives the status/alarm indicator.
type StatusLED interface {
	SetBlinkRate(hz float64)
}

// Resetter performs a hard reset of the system.
type Resetter interface {
	Reset()
}

// BootloaderJumper jumps execution to the bootloader.
type BootloaderJumper interface {
	JumpToBootloader()
}
