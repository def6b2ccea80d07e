// SPDX-License-Identifier: BSD-3-Clause

package telemetry

// Config holds the configuration for the in-process telemetry provider.
type Config struct {
	serviceName    string
	serviceVersion string
	samplingRatio  float64
}

// DefaultConfig returns the configuration used when no options are given:
// every span sampled, service name "tinycore-firmware".
func DefaultConfig() *Config {
	return &Config{
		serviceName:    "tinycore-firmware",
		serviceVersion: "dev",
		samplingRatio:  1.0,
	}
}

// Option configures a Provider at construction time.
type Option func(*Config)

// WithServiceName sets the resource service.name attribute.
func WithServiceName(name string) Option {
	return func(c *Config) { c.serviceName = name }
}

// WithServiceVersion sets the resource service.version attribute.
func WithServiceVersion(version string) Option {
	return func(c *Config) { c.serviceVersion = version }
}

// WithSamplingRatio sets the fraction of dispatch cycles traced, in [0,1].
func WithSamplingRatio(ratio float64) Option {
	return func(c *Config) { c.samplingRatio = ratio }
}
