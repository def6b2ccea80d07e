// SPDX-License-Identifier: BSD-3-Clause

package service

import "context"

// Service is a long-running process driven by cmd/mock's supervision tree.
// A service may be restarted if Run returns an error; returning nil marks it
// done (a oneshot service).
type Service interface {
	// Name returns the service's unique name.
	Name() string

	// Run starts the service. It returns an error if the service needs to
	// be restarted, or nil when it has finished for good.
	Run(ctx context.Context) error
}
