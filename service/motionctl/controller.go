// SPDX-License-Identifier: BSD-3-Clause

package motionctl

import (
	"context"
	"sync/atomic"

	"github.com/tinycore/firmware/pkg/assert"
	"github.com/tinycore/firmware/pkg/state"
)

// CommsMode is the command dispatcher's sticky response mode (spec §6):
// set implicitly by the most recent admin/JSON trigger and held until the
// opposite trigger is seen.
type CommsMode int

const (
	// TextMode is the default mode; G-code responses are emitted as text.
	TextMode CommsMode = iota
	// JSONMode wraps G-code lines as {"gc":"<line>"} before parsing.
	JSONMode
)

// String returns the mode's wire name.
func (m CommsMode) String() string {
	if m == JSONMode {
		return "JSON"
	}
	return "TEXT"
}

// Controller is the motion controller's process-wide singleton (spec §3),
// re-architected per the source's global-singleton design note as one
// explicitly-owned struct constructed at boot and threaded into every
// handler closure instead of living as package-level state.
type Controller struct {
	cfg *Config
	fsm *state.FSM

	buildID, platformID                                 string
	primarySourceID, secondarySourceID, defaultSourceID string

	lineBuf      []byte
	lineLen      int
	lastLine     []byte
	lastResponse []byte
	lastError    error
	mode         CommsMode

	hardResetRequested   atomic.Bool
	bootloaderRequested  atomic.Bool
	feedholdRequested    atomic.Bool
	queueFlushRequested  atomic.Bool
	cycleStartRequested  atomic.Bool
	ledTicks             atomic.Uint64

	sentinel assert.Sentinel
}

// NewController builds a Controller with a fresh run-state machine and a
// zeroed, sentinel-guarded input line buffer.
func NewController(cfg *Config) (*Controller, error) {
	fsm, err := newRunStateFSM(cfg.ServiceName + ".runstate")
	if err != nil {
		return nil, err
	}
	return &Controller{
		cfg:               cfg,
		fsm:               fsm,
		buildID:           cfg.BuildID,
		platformID:        cfg.PlatformID,
		primarySourceID:   cfg.PrimarySourceID,
		secondarySourceID: cfg.SecondarySourceID,
		defaultSourceID:   cfg.DefaultSourceID,
		lineBuf:           make([]byte, cfg.LineBufferSize),
		lastLine:          make([]byte, 0, cfg.LineBufferSize),
		sentinel:          assert.NewSentinel(),
	}, nil
}

// Start starts the underlying run-state machine. Must be called once
// before RaiseAlarm, RaiseFatal, NoteCommandOK, or Reset will take effect.
func (c *Controller) Start(ctx context.Context) error {
	return c.fsm.Start(ctx)
}

// State returns the current run-state name.
func (c *Controller) State() string { return c.fsm.CurrentState() }

// InAlarmOrShutdown reports whether the controller is latched into either
// fault state. Both the shutdown idler (spec §4.6 item 3) and the limit
// switch handler (item 4) key off this combined check: a single fault
// surfaces the same LED behavior whether or not it has yet escalated to
// SHUTDOWN.
func (c *Controller) InAlarmOrShutdown() bool {
	return c.fsm.IsInState(StateAlarm) || c.fsm.IsInState(StateShutdown)
}

// Sentinel returns the controller's integrity sentinel pair.
func (c *Controller) Sentinel() assert.Sentinel { return c.sentinel }

// BuildID and PlatformID are the firmware build/version and hardware
// platform identifiers recorded at construction (spec §3), exposed for
// status reporting.
func (c *Controller) BuildID() string    { return c.buildID }
func (c *Controller) PlatformID() string { return c.platformID }

// Mode returns the command dispatcher's current sticky response mode.
func (c *Controller) Mode() CommsMode { return c.mode }

// LastLine and LastResponse return the most recently processed input line
// and the response (or input-error text) it produced, for reporting.
func (c *Controller) LastLine() []byte     { return c.lastLine }
func (c *Controller) LastResponse() []byte { return c.lastResponse }
func (c *Controller) LastError() error     { return c.lastError }

// RequestHardReset and RequestBootloader latch the two highest-priority
// handler slots. Set from an out-of-band admin trigger, not from the
// command dispatcher's own grammar.
func (c *Controller) RequestHardReset()  { c.hardResetRequested.Store(true) }
func (c *Controller) RequestBootloader() { c.bootloaderRequested.Store(true) }

// RequestFeedhold, RequestQueueFlush, and RequestCycleStart latch the
// requests made by the `!`, `%`, and `~` command-line triggers (spec §4.7
// step 3). Consuming them is the external planner's job, out of this
// package's scope; the flags exist so that job has somewhere to look.
func (c *Controller) RequestFeedhold()   { c.feedholdRequested.Store(true) }
func (c *Controller) RequestQueueFlush() { c.queueFlushRequested.Store(true) }
func (c *Controller) RequestCycleStart() { c.cycleStartRequested.Store(true) }

func (c *Controller) consumeHardReset() bool  { return c.hardResetRequested.CompareAndSwap(true, false) }
func (c *Controller) consumeBootloader() bool { return c.bootloaderRequested.CompareAndSwap(true, false) }

// IncrementLEDTicks advances the LED timing counter (spec §3) every time an
// idler handler runs, independent of the actual blink hardware.
func (c *Controller) IncrementLEDTicks() uint64 { return c.ledTicks.Add(1) }

// RaiseAlarm transitions STARTUP/READY -> ALARM. Already being in ALARM is
// a no-op, matching the limit switch handler's literal "in ALARM, NOOP"
// contract (spec §4.6 item 4) rather than re-firing the trigger.
func (c *Controller) RaiseAlarm(ctx context.Context) error {
	if c.fsm.IsInState(StateAlarm) {
		return nil
	}
	return fire(c.fsm, ctx, TriggerAlarm)
}

// RaiseFatal escalates unconditionally: ALARM -> SHUTDOWN, or any other
// state -> ALARM. Used by the integrity monitor's emergency-propagation
// path (spec §4.5), which must escalate even when a fault is already
// latched.
func (c *Controller) RaiseFatal(ctx context.Context) error {
	if c.fsm.IsInState(StateAlarm) {
		return fire(c.fsm, ctx, TriggerSubsequentFault)
	}
	return fire(c.fsm, ctx, TriggerAlarm)
}

// NoteCommandOK transitions STARTUP -> READY on the first successfully
// dispatched command (spec §4.8). A no-op in every other state.
func (c *Controller) NoteCommandOK(ctx context.Context) error {
	return fire(c.fsm, ctx, TriggerCommandOK)
}

// Reset returns the controller to STARTUP from ALARM or SHUTDOWN.
func (c *Controller) Reset(ctx context.Context) error {
	return fire(c.fsm, ctx, TriggerReset)
}
