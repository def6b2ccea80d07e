// SPDX-License-Identifier: BSD-3-Clause

package telemetry

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

var (
	defaultSetupOnce sync.Once
	setupMutex       sync.Mutex
	globalProvider   *Provider
)

// DefaultSetup initializes the global in-process telemetry provider once,
// using the default configuration. Safe to call more than once; only the
// first call takes effect.
func DefaultSetup() {
	defaultSetupOnce.Do(func() {
		provider, err := NewProvider()
		if err != nil {
			return
		}
		setupMutex.Lock()
		globalProvider = provider
		setupMutex.Unlock()
	})
}

// Setup initializes the global telemetry provider with the given options and
// returns a shutdown function. Only one provider may be active at a time.
func Setup(_ context.Context, opts ...Option) (func(context.Context) error, error) {
	setupMutex.Lock()
	defer setupMutex.Unlock()

	if globalProvider != nil {
		return nil, fmt.Errorf("%w: telemetry already initialized", ErrAlreadyInitialized)
	}

	provider, err := NewProvider(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telemetry provider: %w", err)
	}
	globalProvider = provider

	return func(ctx context.Context) error {
		setupMutex.Lock()
		defer setupMutex.Unlock()
		err := globalProvider.Shutdown(ctx)
		globalProvider = nil
		return err
	}, nil
}

// GetTracer returns a tracer from the global provider, initializing it with
// defaults on first use if Setup was never called.
func GetTracer(name string) trace.Tracer {
	setupMutex.Lock()
	provider := globalProvider
	setupMutex.Unlock()

	if provider == nil {
		DefaultSetup()
		setupMutex.Lock()
		provider = globalProvider
		setupMutex.Unlock()
	}
	if provider == nil {
		return tracenoop.NewTracerProvider().Tracer(name)
	}
	return provider.Tracer(name)
}

// GetMeter returns a meter from the global provider, initializing it with
// defaults on first use if Setup was never called.
func GetMeter(name string) metric.Meter {
	setupMutex.Lock()
	provider := globalProvider
	setupMutex.Unlock()

	if provider == nil {
		DefaultSetup()
		setupMutex.Lock()
		provider = globalProvider
		setupMutex.Unlock()
	}
	if provider == nil {
		return metricnoop.NewMeterProvider().Meter(name)
	}
	return provider.Meter(name)
}

// IsInitialized reports whether the global telemetry provider is set up.
func IsInitialized() bool {
	setupMutex.Lock()
	defer setupMutex.Unlock()
	return globalProvider != nil
}
