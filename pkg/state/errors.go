// SPDX-License-Identifier: BSD-3-Clause

package state

import "errors"

var (
	// ErrInvalidConfig indicates that the state machine configuration is invalid.
	ErrInvalidConfig = errors.New("invalid state machine configuration")
	// ErrInvalidTrigger indicates that the specified trigger is not valid for the current state.
	ErrInvalidTrigger = errors.New("invalid trigger")
	// ErrInvalidTransition indicates that the requested state transition failed.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrTransitionTimeout indicates that a state transition exceeded the configured timeout.
	ErrTransitionTimeout = errors.New("state transition timeout")
	// ErrStateMachineNotStarted indicates that the state machine has not been started.
	ErrStateMachineNotStarted = errors.New("state machine not started")
	// ErrStateMachineStopped indicates that the state machine has been stopped.
	ErrStateMachineStopped = errors.New("state machine stopped")
)
