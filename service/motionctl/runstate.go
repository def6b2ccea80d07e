// SPDX-License-Identifier: BSD-3-Clause

package motionctl

import (
	"context"
	"fmt"

	"github.com/tinycore/firmware/pkg/state"
)

// Run-state names and triggers for the motion controller's observed state
// machine: STARTUP -> READY on first successful command; any -> ALARM on a
// limit-switch or assertion failure; ALARM -> SHUTDOWN on a subsequent
// fault; SHUTDOWN is terminal until reset.
const (
	StateStartup  = "STARTUP"
	StateReady    = "READY"
	StateAlarm    = "ALARM"
	StateShutdown = "SHUTDOWN"

	TriggerCommandOK    = "command_ok"
	TriggerAlarm        = "alarm"
	TriggerSubsequentFault = "subsequent_fault"
	TriggerReset        = "reset"
)

// newRunStateFSM builds the qmuntal/stateless-backed run-state machine via
// the adapted pkg/state wrapper, mirroring statemgr's per-subsystem FSM
// construction.
func newRunStateFSM(name string) (*state.FSM, error) {
	cfg := state.NewConfig(
		state.WithName(name),
		state.WithInitialState(StateStartup),
		state.WithStates(StateStartup, StateReady, StateAlarm, StateShutdown),
		state.WithTransition(StateStartup, StateReady, TriggerCommandOK),
		state.WithTransition(StateStartup, StateAlarm, TriggerAlarm),
		state.WithTransition(StateReady, StateAlarm, TriggerAlarm),
		state.WithTransition(StateAlarm, StateShutdown, TriggerSubsequentFault),
		state.WithTransition(StateAlarm, StateStartup, TriggerReset),
		state.WithTransition(StateShutdown, StateStartup, TriggerReset),
	)

	fsm, err := state.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("motionctl: building run-state machine: %w", err)
	}
	return fsm, nil
}

// fire is a small convenience wrapper that swallows the "transition not
// permitted" case as a no-op, since several handlers fire triggers
// optimistically (e.g. re-raising alarm while already in ALARM).
func fire(fsm *state.FSM, ctx context.Context, trigger string) error {
	if ok, _ := fsm.CanFire(trigger); !ok {
		return nil
	}
	return fsm.Fire(ctx, trigger, nil)
}
