// SPDX-License-Identifier: BSD-3-Clause

package assert_test

import (
	"errors"
	"testing"

	"github.com/tinycore/firmware/pkg/assert"
)

func TestSentinelIntact(t *testing.T) {
	s := assert.NewSentinel()
	if !s.Intact() {
		t.Fatal("freshly constructed sentinel should be intact")
	}

	corrupted := s
	corrupted.MagicEnd = 0
	if corrupted.Intact() {
		t.Fatal("sentinel with a clobbered magic value should not be intact")
	}
}

func TestSentinelZeroValueIsNotIntact(t *testing.T) {
	var s assert.Sentinel
	if s.Intact() {
		t.Fatal("zero-value sentinel should never report intact")
	}
}

func TestMonitorRunPassesWhenAllSentinelsIntact(t *testing.T) {
	m := assert.NewMonitor(nil)
	m.Register("a", func() assert.Sentinel { return assert.NewSentinel() })
	m.Register("b", func() assert.Sentinel { return assert.NewSentinel() })
	if err := m.Run(); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
}

func TestMonitorRunFailsOnCorruptedSentinel(t *testing.T) {
	m := assert.NewMonitor(nil)
	m.Register("good", func() assert.Sentinel { return assert.NewSentinel() })
	m.Register("bad", func() assert.Sentinel { return assert.Sentinel{} })

	err := m.Run()
	if err == nil {
		t.Fatal("Run() = nil, want an error for the corrupted sentinel")
	}
	if !errors.Is(err, assert.ErrSentinelCorrupted) {
		t.Fatalf("Run() error = %v, want wrapping ErrSentinelCorrupted", err)
	}
}

func TestMonitorRunFailsOnSubsystemAssertion(t *testing.T) {
	m := assert.NewMonitor(nil)
	m.RegisterSubsystem("planner", func() bool { return false })

	err := m.Run()
	if !errors.Is(err, assert.ErrSubsystemAssertion) {
		t.Fatalf("Run() error = %v, want wrapping ErrSubsystemAssertion", err)
	}
}

func TestPropagateInvokesRaiseAlarmOnError(t *testing.T) {
	sentinelErr := errors.New("boom")
	var raised error
	err := assert.Propagate(func(e error) { raised = e }, sentinelErr)

	if !errors.Is(err, sentinelErr) {
		t.Fatalf("Propagate() = %v, want %v", err, sentinelErr)
	}
	if raised != sentinelErr {
		t.Fatalf("raiseAlarm called with %v, want %v", raised, sentinelErr)
	}
}

func TestPropagateNoopOnNilError(t *testing.T) {
	called := false
	err := assert.Propagate(func(error) { called = true }, nil)
	if err != nil {
		t.Fatalf("Propagate() = %v, want nil", err)
	}
	if called {
		t.Fatal("raiseAlarm should not be invoked when err is nil")
	}
}
