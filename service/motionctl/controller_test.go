// SPDX-License-Identifier: BSD-3-Clause

package motionctl_test

import (
	"testing"

	"github.com/tinycore/firmware/service/motionctl"
)

func TestControllerRaiseAlarmIsIdempotent(t *testing.T) {
	owner := newTestRig(t).owner
	ctrl := owner.Controller()
	if err := ctrl.Start(t.Context()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := ctrl.RaiseAlarm(t.Context()); err != nil {
		t.Fatalf("RaiseAlarm: %v", err)
	}
	if err := ctrl.RaiseAlarm(t.Context()); err != nil {
		t.Fatalf("second RaiseAlarm: %v", err)
	}
	if ctrl.State() != motionctl.StateAlarm {
		t.Fatalf("state = %v, want ALARM", ctrl.State())
	}
}

func TestControllerRaiseFatalEscalatesAlarmToShutdown(t *testing.T) {
	owner := newTestRig(t).owner
	ctrl := owner.Controller()
	if err := ctrl.Start(t.Context()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := ctrl.RaiseAlarm(t.Context()); err != nil {
		t.Fatalf("RaiseAlarm: %v", err)
	}
	if err := ctrl.RaiseFatal(t.Context()); err != nil {
		t.Fatalf("RaiseFatal: %v", err)
	}
	if ctrl.State() != motionctl.StateShutdown {
		t.Fatalf("state = %v, want SHUTDOWN", ctrl.State())
	}
}

func TestControllerRaiseFatalFromStartupGoesDirectlyToAlarm(t *testing.T) {
	owner := newTestRig(t).owner
	ctrl := owner.Controller()
	if err := ctrl.Start(t.Context()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := ctrl.RaiseFatal(t.Context()); err != nil {
		t.Fatalf("RaiseFatal: %v", err)
	}
	if ctrl.State() != motionctl.StateAlarm {
		t.Fatalf("state = %v, want ALARM", ctrl.State())
	}
}

func TestControllerResetReturnsToStartup(t *testing.T) {
	owner := newTestRig(t).owner
	ctrl := owner.Controller()
	if err := ctrl.Start(t.Context()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := ctrl.RaiseAlarm(t.Context()); err != nil {
		t.Fatalf("RaiseAlarm: %v", err)
	}
	if err := ctrl.Reset(t.Context()); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if ctrl.State() != motionctl.StateStartup {
		t.Fatalf("state = %v, want STARTUP", ctrl.State())
	}
}

func TestHardResetHandlerConsumesRequestOnce(t *testing.T) {
	r := newTestRig(t)
	owner, resetter := r.owner, r.resetter
	ctrl := owner.Controller()
	ctrl.RequestHardReset()

	// The rig's line source is empty, so every cycle ends at the command
	// dispatcher's EAGAIN after the hard-reset handler has run.
	halted, err := owner.RunCycle(t.Context())
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if halted != "command_dispatcher" {
		t.Fatalf("halted at %q, want command_dispatcher", halted)
	}
	if resetter.Count() != 1 {
		t.Fatalf("resetter.Count() = %d, want 1 after a latched hard-reset request", resetter.Count())
	}

	// A second cycle should see nothing latched: the hard-reset handler's
	// NOOP branch, not a second reset.
	halted, err = owner.RunCycle(t.Context())
	if err != nil {
		t.Fatalf("second RunCycle: %v", err)
	}
	if halted != "command_dispatcher" {
		t.Fatalf("second RunCycle halted at %q, want command_dispatcher", halted)
	}
	if resetter.Count() != 1 {
		t.Fatalf("resetter.Count() = %d after second cycle, want unchanged at 1", resetter.Count())
	}
}
