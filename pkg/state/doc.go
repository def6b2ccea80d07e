// SPDX-License-Identifier: BSD-3-Clause

// Package state wraps github.com/qmuntal/stateless with the fixed,
// from/to/trigger vocabulary each controller's run-state machine needs:
// a small set of named states, transitions permitted only along declared
// edges, and a timeout around every Fire so a stuck guard or a wedged
// goroutine can't hang the dispatch loop.
//
// # Basic usage
//
//	cfg := state.NewConfig(
//		state.WithName("motionctl.runstate"),
//		state.WithInitialState("STARTUP"),
//		state.WithStates("STARTUP", "READY", "ALARM", "SHUTDOWN"),
//		state.WithTransition("STARTUP", "READY", "command_ok"),
//		state.WithTransition("STARTUP", "ALARM", "alarm"),
//	)
//
//	fsm, err := state.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := fsm.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//	if err := fsm.Fire(ctx, "command_ok", nil); err != nil {
//		log.Printf("transition failed: %v", err)
//	}
//
// # Thread safety
//
// FSM guards its state with a mutex; CurrentState, CanFire, and IsInState
// may be called concurrently with Fire.
package state
