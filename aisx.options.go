package aisx

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	maxDepth         int
	strict           bool
	logger           *zap.Logger
	registerer       prometheus.Registerer
	metricsNamespace string
	tracerProvider   trace.TracerProvider
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		maxDepth:         DefaultMaxDepth,
		strict:           false,
		logger:           nil,
		registerer:       nil,
		metricsNamespace: DefaultMetricsNamespace,
		tracerProvider:   nil,
	}
}

// WithMaxDepth sets the maximum element nesting depth.
// Use 0 for unlimited depth.
// Default: 100
func WithMaxDepth(depth int) Option {
	return func(c *engineConfig) {
		c.maxDepth = depth
	}
}

// WithStrictValidation makes Result.Text fail with a RenderTreeError when a
// deferred result settled but was never awaited and its tree has async
// mismatches. Awaited results and RenderAsync are unaffected.
// By default mismatches are only reported through Result.Issues.
func WithStrictValidation(strict bool) Option {
	return func(c *engineConfig) {
		c.strict = strict
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithMetrics registers render metrics on the given Prometheus registerer.
// Default: nil (metrics disabled)
func WithMetrics(registerer prometheus.Registerer) Option {
	return func(c *engineConfig) {
		c.registerer = registerer
	}
}

// WithMetricsNamespace sets the Prometheus namespace.
// Default: "aisx"
func WithMetricsNamespace(namespace string) Option {
	return func(c *engineConfig) {
		if namespace != "" {
			c.metricsNamespace = namespace
		}
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider.
// Default: the global provider from otel.GetTracerProvider()
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *engineConfig) {
		c.tracerProvider = tp
	}
}
