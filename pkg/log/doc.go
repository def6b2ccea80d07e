// SPDX-License-Identifier: BSD-3-Clause

// Package log provides the structured logger shared by every package in the
// control core. It fans log records out to a human-readable zerolog console
// writer and to the active OpenTelemetry span (as span events), so a
// dispatch cycle's log lines and its trace stay correlated without standing
// up a network exporter.
//
// # Basic usage
//
//	logger := log.NewDefaultLogger()
//	logger.Info("dispatcher ready", "priority_levels", 19)
//	logger.Error("integrity check failed", "check", "stack_guard", "error", err)
//
// # Oversight and standard-library integration
//
// NewOversightLogger adapts a *slog.Logger to the oversight.Logger signature
// used by the supervision tree started in cmd/mock. RedirectStdLog, also
// called from cmd/mock at startup, routes any standard-library log output
// (from a collaborator that logs through log.Print rather than slog) through
// the same structured logger; NewStdLoggerAt is the io.Writer adapter it is
// built on.
package log
