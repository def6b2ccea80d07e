// SPDX-License-Identifier: BSD-3-Clause

package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	"go.opentelemetry.io/otel/trace"
)

// Provider is an in-process tracing/metrics provider. It carries no network
// exporter: spans and metric instruments are created and recorded for the
// process's own observability (the dispatch-cycle spans and the counters
// the control core emits) and are never pushed anywhere. The manual metric
// reader is registered with the meter provider but is not exposed.
type Provider struct {
	config        *Config
	resource      *resource.Resource
	traceProvider *sdktrace.TracerProvider
	meterProvider *sdkmetric.MeterProvider
	reader        *sdkmetric.ManualReader
}

// NewProvider builds a Provider from the given options.
func NewProvider(opts ...Option) (*Provider, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	if config.serviceName == "" {
		return nil, fmt.Errorf("%w: service name is required", ErrInvalidConfiguration)
	}
	if config.samplingRatio < 0 || config.samplingRatio > 1 {
		return nil, fmt.Errorf("%w: sampling ratio must be in [0,1]", ErrInvalidConfiguration)
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		semconv.ServiceName(config.serviceName),
		semconv.ServiceVersion(config.serviceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to build telemetry resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(config.samplingRatio))),
	)

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)

	return &Provider{
		config:        config,
		resource:      res,
		traceProvider: tp,
		meterProvider: mp,
		reader:        reader,
	}, nil
}

// Tracer returns a named tracer from this provider.
func (p *Provider) Tracer(name string) trace.Tracer {
	return p.traceProvider.Tracer(name)
}

// Meter returns a named meter from this provider.
func (p *Provider) Meter(name string) metric.Meter {
	return p.meterProvider.Meter(name)
}

// Shutdown flushes and releases the provider's resources.
func (p *Provider) Shutdown(ctx context.Context) error {
	if err := p.traceProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down trace provider: %w", err)
	}
	if err := p.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down meter provider: %w", err)
	}
	return nil
}
