// SPDX-License-Identifier: BSD-3-Clause

package telemetry

import "errors"

var (
	// ErrInvalidConfiguration indicates an invalid telemetry configuration.
	ErrInvalidConfiguration = errors.New("invalid telemetry configuration")
	// ErrAlreadyInitialized indicates Setup was called more than once.
	ErrAlreadyInitialized = errors.New("telemetry already initialized")
)
