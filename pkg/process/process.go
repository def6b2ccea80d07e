// SPDX-License-Identifier: BSD-3-Clause

// Package process adapts a service.Service into an oversight.ChildProcess,
// so the control core's two long-running loops (the motion dispatcher and
// the thermal controller) can be added to the same supervision tree and
// restarted on panic or error, independent of each other.
package process

import (
	"context"
	"fmt"

	"cirello.io/oversight/v2"

	"github.com/tinycore/firmware/service"
)

// New wraps s as an oversight.ChildProcess. A panic inside Run is recovered
// and converted into an error tagged with the service's name, so a single
// misbehaving loop cannot bring down the supervision tree's host process.
func New(s service.Service) oversight.ChildProcess {
	return func(ctx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s panicked: %v", s.Name(), r)
			}
		}()
		return s.Run(ctx)
	}
}
