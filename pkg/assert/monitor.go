// SPDX-License-Identifier: BSD-3-Clause

package assert

import (
	"fmt"
	"log/slog"

	antithesis "github.com/antithesishq/antithesis-sdk-go/assert"
)

// SentinelSource returns the current value of a state block's sentinel pair.
// It is a function rather than a stored Sentinel because the monitor must
// see the live value on every cycle, not a snapshot taken at registration.
type SentinelSource func() Sentinel

// SubsystemCheck is a per-subsystem assertion (planner, stepper, encoder,
// command parser, I/O layer) invoked once per cycle alongside the sentinel
// checks.
type SubsystemCheck func() bool

type namedSentinel struct {
	name string
	src  SentinelSource
}

type namedSubsystem struct {
	name  string
	check SubsystemCheck
}

// Monitor is the integrity monitor: it owns the registered sentinel sources
// and subsystem checks and runs all of them once per HSM cycle.
type Monitor struct {
	logger     *slog.Logger
	sentinels  []namedSentinel
	subsystems []namedSubsystem
}

// NewMonitor constructs an empty Monitor. Register sentinels and subsystem
// checks with Register and RegisterSubsystem before the first Run.
func NewMonitor(logger *slog.Logger) *Monitor {
	return &Monitor{logger: logger}
}

// Register adds a state block's sentinel pair to the set checked every cycle.
func (m *Monitor) Register(name string, src SentinelSource) {
	m.sentinels = append(m.sentinels, namedSentinel{name: name, src: src})
}

// RegisterSubsystem adds a subsystem assertion to the set run every cycle.
func (m *Monitor) RegisterSubsystem(name string, check SubsystemCheck) {
	m.subsystems = append(m.subsystems, namedSubsystem{name: name, check: check})
}

// Run checks every registered sentinel and subsystem assertion in
// registration order and returns the first failure. A clean pass reports a
// Reachable fact to antithesis-sdk-go so fuzzing/testing backends can
// confirm the integrity-check path itself is being exercised.
func (m *Monitor) Run() error {
	for _, s := range m.sentinels {
		v := s.src()
		intact := v.Intact()
		antithesis.Always(intact, "state block sentinel intact", map[string]any{
			"block":       s.name,
			"magic_start": v.MagicStart,
			"magic_end":   v.MagicEnd,
		})
		if !intact {
			err := fmt.Errorf("%w: block %q", ErrSentinelCorrupted, s.name)
			if m.logger != nil {
				m.logger.Error("integrity sentinel corrupted", "block", s.name, "error", err)
			}
			return err
		}
	}

	for _, sub := range m.subsystems {
		ok := sub.check()
		antithesis.Always(ok, "subsystem assertion holds", map[string]any{"subsystem": sub.name})
		if !ok {
			err := fmt.Errorf("%w: subsystem %q", ErrSubsystemAssertion, sub.name)
			if m.logger != nil {
				m.logger.Error("subsystem assertion failed", "subsystem", sub.name, "error", err)
			}
			return err
		}
	}

	antithesis.Reachable("integrity monitor completed a clean cycle", nil)
	return nil
}

// Propagate is the Go analogue of the source's emergency-propagation macro:
// evaluate an assertion, and if it failed, invoke raiseAlarm and return the
// error immediately. raiseAlarm is expected to transition the caller's owner
// into its alarm state; Propagate never does that itself.
func Propagate(raiseAlarm func(error), err error) error {
	if err != nil {
		if raiseAlarm != nil {
			raiseAlarm(err)
		}
		return err
	}
	return nil
}
