// SPDX-License-Identifier: BSD-3-Clause

package motionctl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tinycore/firmware/service/motionctl"
)

func TestRunReturnsContextErrorOnCancel(t *testing.T) {
	owner := newTestRig(t).owner

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := owner.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRunErrorsIfAlreadyStarted(t *testing.T) {
	owner := newTestRig(t).owner

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- owner.Run(ctx) }()
	time.Sleep(5 * time.Millisecond)

	if err := owner.Run(context.Background()); !errors.Is(err, motionctl.ErrServiceAlreadyStarted) {
		t.Fatalf("second Run() error = %v, want ErrServiceAlreadyStarted", err)
	}

	cancel()
	<-done
}

func TestRunSurvivesNonEmergencyFaultUntilDeadline(t *testing.T) {
	r := newTestRig(t)
	owner, limit := r.owner, r.limit

	// A bare limit-switch trip is a non-emergency, operational fault (spec
	// §7c): Run must keep dispatching cycles until the context deadline
	// rather than stopping early.
	limit.Trip()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := owner.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() error = %v, want context.DeadlineExceeded", err)
	}
}
