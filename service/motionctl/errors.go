// SPDX-License-Identifier: BSD-3-Clause

package motionctl

import "errors"

var (
	// ErrServiceAlreadyStarted is returned by Run if the Owner is already
	// driving its dispatch loop.
	ErrServiceAlreadyStarted = errors.New("motionctl: service already started")
	// ErrInvalidConfiguration is returned by Config.Validate.
	ErrInvalidConfiguration = errors.New("motionctl: invalid configuration")
	// ErrIntegrityViolation wraps a system-assertions failure (spec §4.5):
	// a sentinel or subsystem check failed and a hard alarm was raised.
	ErrIntegrityViolation = errors.New("motionctl: integrity violation")
	// ErrLimitSwitchHit is the operational-fault error raised by the limit
	// switch handler (spec §4.6 item 4).
	ErrLimitSwitchHit = errors.New("motionctl: limit switch hit")
)
