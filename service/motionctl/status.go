// SPDX-License-Identifier: BSD-3-Clause

package motionctl

// Status is the result every handler in the dispatcher's priority list
// returns. It is deliberately not a Go error on its own: OK, NOOP, and
// EAGAIN are routine control-flow outcomes, not failures.
type Status int

const (
	// StatusOK means the handler did its work and the cycle may continue.
	StatusOK Status = iota
	// StatusNOOP means the handler had nothing to do this cycle.
	StatusNOOP
	// StatusEAGAIN means the handler is not finished; call it again next
	// cycle. Returning EAGAIN short-circuits every lower-priority handler
	// for the remainder of this cycle.
	StatusEAGAIN
	// StatusEOF means an input source is exhausted.
	StatusEOF
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusNOOP:
		return "NOOP"
	case StatusEAGAIN:
		return "EAGAIN"
	case StatusEOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

// Handler is one entry in the dispatcher's fixed priority list.
type Handler struct {
	Name string
	Run  func() (Status, error)

	// Emergency marks the system-assertions handler (spec §4.5): unlike
	// every other handler, whose errors fall through to the next one, an
	// Emergency handler's error is returned immediately by RunCycle. This
	// is the Go shape of the source's emergency-propagation macro.
	Emergency bool
}
