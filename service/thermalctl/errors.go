// SPDX-License-Identifier: BSD-3-Clause

package thermalctl

import "errors"

var (
	// ErrServiceAlreadyStarted indicates Run was called on an Owner already running.
	ErrServiceAlreadyStarted = errors.New("thermalctl: service already started")
	// ErrInvalidConfiguration indicates the Owner's configuration failed validation.
	ErrInvalidConfiguration = errors.New("thermalctl: invalid configuration")
	// ErrIntegrityViolation indicates an integrity sentinel or subsystem
	// assertion failed during a dispatch cycle.
	ErrIntegrityViolation = errors.New("thermalctl: integrity violation")
)
