// SPDX-License-Identifier: BSD-3-Clause

package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/qmuntal/stateless"
)

// FSM is a thread-safe run-state machine: a small, named set of states with
// triggers permitted only along the from/to edges declared in Config. The
// motion controller's Controller owns exactly one, built by motionctl's
// newRunStateFSM.
type FSM struct {
	config  *Config
	machine *stateless.StateMachine
	mu      sync.RWMutex
	started bool
	stopped bool

	currentState string
}

// New creates a new state machine with the provided configuration.
func New(config *Config) (*FSM, error) {
	if config == nil {
		return nil, ErrInvalidConfig
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	sm := &FSM{
		config:       config,
		currentState: config.InitialState,
	}

	sm.machine = stateless.NewStateMachine(config.InitialState)
	for _, transition := range config.Transitions {
		sm.machine.Configure(transition.From).Permit(transition.Trigger, transition.To)
	}

	return sm, nil
}

// Start marks the state machine ready to accept Fire calls. Idempotent.
func (sm *FSM) Start(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.started {
		return nil
	}
	if sm.stopped {
		return ErrStateMachineStopped
	}

	sm.started = true
	return nil
}

// Stop permanently halts the state machine; Fire returns ErrStateMachineStopped afterward.
func (sm *FSM) Stop(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.started || sm.stopped {
		return nil
	}

	sm.stopped = true
	return nil
}

// Fire triggers a state transition, bounded by the configured StateTimeout.
// data is reserved for callers that want to attach request-scoped
// information to the transition; the underlying stateless.StateMachine
// doesn't consume it today.
func (sm *FSM) Fire(ctx context.Context, trigger string, data map[string]any) error {
	sm.mu.Lock()

	if !sm.started {
		sm.mu.Unlock()
		return ErrStateMachineNotStarted
	}
	if sm.stopped {
		sm.mu.Unlock()
		return ErrStateMachineStopped
	}

	if ok, err := sm.machine.CanFire(trigger); err != nil {
		sm.mu.Unlock()
		return fmt.Errorf("%w: trigger %s not valid in state %s: %w", ErrInvalidTrigger, trigger, sm.currentState, err)
	} else if !ok {
		sm.mu.Unlock()
		return fmt.Errorf("%w: trigger %s not valid in state %s", ErrInvalidTrigger, trigger, sm.currentState)
	}

	timeout := sm.config.StateTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	fireCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		if err := sm.machine.FireCtx(fireCtx, trigger); err != nil {
			done <- fmt.Errorf("%w: %w", ErrInvalidTransition, err)
			return
		}
		done <- nil
	}()

	select {
	case err := <-done:
		if err != nil {
			sm.mu.Unlock()
			return err
		}
	case <-fireCtx.Done():
		sm.mu.Unlock()
		if fireCtx.Err() == context.DeadlineExceeded {
			return ErrTransitionTimeout
		}
		return fireCtx.Err()
	}

	state, err := sm.machine.State(ctx)
	if err != nil {
		sm.mu.Unlock()
		return fmt.Errorf("failed to get current state: %w", err)
	}
	sm.currentState = fmt.Sprintf("%v", state)
	sm.mu.Unlock()

	return nil
}

// CurrentState returns the current state of the state machine.
func (sm *FSM) CurrentState() string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentState
}

// CanFire checks if the specified trigger can be fired from the current state.
func (sm *FSM) CanFire(trigger string) (bool, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.machine.CanFire(trigger)
}

// IsInState checks if the state machine is in the specified state.
func (sm *FSM) IsInState(state string) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentState == state
}

// Name returns the name of the state machine.
func (sm *FSM) Name() string { return sm.config.Name }
