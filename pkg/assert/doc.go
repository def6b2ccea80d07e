// SPDX-License-Identifier: BSD-3-Clause

// Package assert implements the sentinel-based memory-integrity monitor
// shared by the motion and thermal controllers. Every long-lived state
// block carries a magic_start/magic_end pair; the monitor verifies both on
// every dispatch cycle and reports through antithesis-sdk-go so a single
// corrupted word is a deterministic, observable event rather than silent
// misbehavior — the same intent as the teacher's emergency-propagation
// macro, expressed as a Go helper instead of a C preprocessor macro.
package assert
