// SPDX-License-Identifier: BSD-3-Clause

package motionctl_test

import (
	"testing"

	"github.com/tinycore/firmware/pkg/mockhw"
	"github.com/tinycore/firmware/service/motionctl"
)

// testRig bundles an Owner with every mockhw collaborator it was built from,
// so individual tests can reach in and script behavior without re-deriving
// the wiring each time.
type testRig struct {
	owner    *motionctl.Owner
	src      *mockhw.LineSource
	gcode    *mockhw.EchoParser
	text     *mockhw.EchoParser
	json     *mockhw.EchoParser
	planner  *mockhw.Planner
	tx       *mockhw.TXBuffer
	stepper  *mockhw.Stepper
	limit    *mockhw.LimitSwitch
	led      *mockhw.StatusLED
	resetter *mockhw.Resetter
	bootldr  *mockhw.BootloaderJumper
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	cfg := motionctl.DefaultConfig()
	r := &testRig{
		src:      mockhw.NewLineSource(),
		gcode:    mockhw.NewEchoParser("ok "),
		text:     mockhw.NewEchoParser("ok "),
		json:     mockhw.NewEchoParser(""),
		planner:  mockhw.NewPlanner(16),
		tx:       mockhw.NewTXBuffer(0),
		stepper:  mockhw.NewStepper(),
		limit:    mockhw.NewLimitSwitch(),
		led:      mockhw.NewStatusLED(),
		resetter: mockhw.NewResetter(),
		bootldr:  mockhw.NewBootloaderJumper(),
	}

	cfg.LineSource = r.src
	cfg.GCodeParser = r.gcode
	cfg.TextParser = r.text
	cfg.JSONParser = r.json
	cfg.Planner = r.planner
	cfg.TXBuffer = r.tx
	cfg.Stepper = r.stepper
	cfg.LimitSwitch = r.limit
	cfg.LED = r.led
	cfg.Resetter = r.resetter
	cfg.BootloaderJumper = r.bootldr

	owner, err := motionctl.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.owner = owner
	return r
}

func TestDispatchCycleRoutesGCodeLine(t *testing.T) {
	r := newTestRig(t)
	owner, src := r.owner, r.src
	src.Feed("G1 X10 Y20")

	halted, err := owner.RunCycle(t.Context())
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if halted != "" {
		t.Fatalf("RunCycle halted at %q, want full pass", halted)
	}
	if got := string(owner.Controller().LastResponse()); got != "ok G1 X10 Y20" {
		t.Fatalf("LastResponse = %q, want %q", got, "ok G1 X10 Y20")
	}
}

func TestDispatchCycleTransitionsToReadyOnFirstCommand(t *testing.T) {
	r := newTestRig(t)
	owner, src := r.owner, r.src
	if err := owner.Controller().Start(t.Context()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	src.Feed("G28")

	if _, err := owner.RunCycle(t.Context()); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if owner.Controller().State() != motionctl.StateReady {
		t.Fatalf("state = %v, want %v", owner.Controller().State(), motionctl.StateReady)
	}
}

func TestDispatchCycleSwitchesToJSONModeOnBraceLine(t *testing.T) {
	r := newTestRig(t)
	owner, src := r.owner, r.src
	src.Feed(`{"foo":1}`)

	if _, err := owner.RunCycle(t.Context()); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if owner.Controller().Mode() != motionctl.JSONMode {
		t.Fatalf("mode = %v, want JSONMode", owner.Controller().Mode())
	}
}

func TestDispatchCyclePlannerBackpressureEAGAINsBeforeCommandDispatcher(t *testing.T) {
	r := newTestRig(t)
	owner, src, planner := r.owner, r.src, r.planner
	planner.SetFreeBufferCount(0)
	src.Feed("G1 X1")

	halted, err := owner.RunCycle(t.Context())
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if halted != "sync_to_planner" {
		t.Fatalf("halted at %q, want sync_to_planner", halted)
	}
	if owner.Controller().LastResponse() != nil {
		t.Fatal("command dispatcher must not have run while planner has no headroom")
	}
}

func TestDispatchCycleTXBackpressureEAGAINs(t *testing.T) {
	r := newTestRig(t)
	owner, tx := r.owner, r.tx
	tx.SetOccupancy(1 << 20)

	halted, err := owner.RunCycle(t.Context())
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if halted != "sync_to_tx" {
		t.Fatalf("halted at %q, want sync_to_tx", halted)
	}
}

func TestDispatchCycleLimitSwitchRaisesAlarm(t *testing.T) {
	// A limit-switch hit is an operational fault (spec §7c), not an
	// emergency-propagation one: RunCycle logs it and keeps running the rest
	// of the cycle rather than returning an error, with the transition to
	// ALARM taking effect as the handler's side effect.
	r := newTestRig(t)
	owner, limit := r.owner, r.limit
	if err := owner.Controller().Start(t.Context()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	limit.Trip()

	if _, err := owner.RunCycle(t.Context()); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if owner.Controller().State() != motionctl.StateAlarm {
		t.Fatalf("state = %v, want ALARM", owner.Controller().State())
	}
	if limit.Thrown() {
		t.Fatal("limit switch should be cleared after handling")
	}
}

func TestDispatchCycleShutdownIdlerLatchesAfterAlarm(t *testing.T) {
	r := newTestRig(t)
	owner, limit := r.owner, r.limit
	if err := owner.Controller().Start(t.Context()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	limit.Trip()
	if _, err := owner.RunCycle(t.Context()); err != nil {
		t.Fatalf("first RunCycle: %v", err)
	}

	// shutdown_idler runs ahead of limit_switch in priority order, so the
	// ALARM transition the first cycle made only takes effect starting with
	// the second cycle.
	halted, err := owner.RunCycle(t.Context())
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if halted != "shutdown_idler" {
		t.Fatalf("halted at %q, want shutdown_idler once latched into ALARM", halted)
	}
}

func TestHandlerNamesMatchFixedPriorityOrder(t *testing.T) {
	owner := newTestRig(t).owner
	want := []string{
		"hard_reset", "bootloader", "shutdown_idler", "limit_switch",
		"feedhold_sequencing", "feedhold_planning", "system_assertions",
		"stepper_power", "status_report", "queue_report", "arc_generator",
		"homing", "jogging", "probe", "sync_to_planner", "sync_to_tx",
		"baud_rate_update", "command_dispatcher", "normal_idler",
	}
	got := owner.HandlerNames()
	if len(got) != len(want) {
		t.Fatalf("len(HandlerNames()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("HandlerNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
