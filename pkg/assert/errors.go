// SPDX-License-Identifier: BSD-3-Clause

package assert

import "errors"

var (
	// ErrSentinelCorrupted indicates a magic_start/magic_end sentinel no
	// longer matches its expected value.
	ErrSentinelCorrupted = errors.New("integrity sentinel corrupted")
	// ErrSubsystemAssertion indicates a registered subsystem assertion
	// (planner, stepper, encoder, parser, I/O layer) reported failure.
	ErrSubsystemAssertion = errors.New("subsystem assertion failed")
)
