// SPDX-License-Identifier: BSD-3-Clause

package state

import (
	"fmt"
	"time"
)

// Config holds the configuration for a state machine wrapper.
type Config struct {
	// Name is the unique identifier for the state machine
	Name string
	// InitialState is the starting state of the machine
	InitialState string
	// States defines all possible states
	States []string
	// Transitions defines the allowed from/to/trigger transitions
	Transitions []Transition
	// StateTimeout is the maximum time a single Fire call may take
	StateTimeout time.Duration
}

// Transition represents an allowed state transition.
type Transition struct {
	From    string
	To      string
	Trigger string
}

// Option configures a Config built by NewConfig.
type Option interface {
	apply(*Config)
}

type nameOption struct {
	name string
}

func (o *nameOption) apply(c *Config) {
	c.Name = o.name
}

// WithName sets the name of the state machine.
func WithName(name string) Option {
	return &nameOption{name: name}
}

type initialStateOption struct {
	state string
}

func (o *initialStateOption) apply(c *Config) {
	c.InitialState = o.state
}

// WithInitialState sets the initial state of the state machine.
func WithInitialState(state string) Option {
	return &initialStateOption{state: state}
}

type statesOption struct {
	states []string
}

func (o *statesOption) apply(c *Config) {
	c.States = append([]string(nil), o.states...)
}

// WithStates sets the available states for the state machine.
func WithStates(states ...string) Option {
	return &statesOption{states: states}
}

type transitionOption struct {
	transition Transition
}

func (o *transitionOption) apply(c *Config) {
	c.Transitions = append(c.Transitions, o.transition)
}

// WithTransition adds an allowed from/to transition fired by trigger.
func WithTransition(from, to, trigger string) Option {
	return &transitionOption{
		transition: Transition{From: from, To: to, Trigger: trigger},
	}
}

// NewConfig creates a new state machine configuration with the provided options.
func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		States:       []string{},
		Transitions:  []Transition{},
		StateTimeout: 30 * time.Second,
	}

	for _, opt := range opts {
		opt.apply(cfg)
	}

	return cfg
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidConfig)
	}

	if c.InitialState == "" {
		return fmt.Errorf("%w: initial state cannot be empty", ErrInvalidConfig)
	}

	if len(c.States) == 0 {
		return fmt.Errorf("%w: at least one state must be defined", ErrInvalidConfig)
	}

	initialStateFound := false
	stateNames := make(map[string]bool)
	for _, state := range c.States {
		if state == "" {
			return fmt.Errorf("%w: state name cannot be empty", ErrInvalidConfig)
		}
		if stateNames[state] {
			return fmt.Errorf("%w: duplicate state name: %s", ErrInvalidConfig, state)
		}
		stateNames[state] = true
		if state == c.InitialState {
			initialStateFound = true
		}
	}

	if !initialStateFound {
		return fmt.Errorf("%w: initial state %s not found in states list", ErrInvalidConfig, c.InitialState)
	}

	for _, transition := range c.Transitions {
		if transition.From == "" || transition.To == "" {
			return fmt.Errorf("%w: transition from and to states cannot be empty", ErrInvalidConfig)
		}
		if transition.Trigger == "" {
			return fmt.Errorf("%w: transition trigger cannot be empty", ErrInvalidConfig)
		}
		if !stateNames[transition.From] {
			return fmt.Errorf("%w: transition from state %s not found", ErrInvalidConfig, transition.From)
		}
		if !stateNames[transition.To] {
			return fmt.Errorf("%w: transition to state %s not found", ErrInvalidConfig, transition.To)
		}
	}

	if c.StateTimeout <= 0 {
		return fmt.Errorf("%w: state timeout must be positive", ErrInvalidConfig)
	}

	return nil
}
