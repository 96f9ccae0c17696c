package export

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option customizes an Exporter
type Option func(e *Exporter)

// WithLogger sets the structured logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithConcurrency bounds the number of in-flight store calls per phase
func WithConcurrency(concurrency int) Option {
	return func(e *Exporter) {
		if concurrency > 0 {
			e.concurrency = concurrency
		}
	}
}

// WithRegisterer registers export counters with registerer
func WithRegisterer(registerer prometheus.Registerer) Option {
	return func(e *Exporter) {
		e.registerer = registerer
	}
}

// WithLogName overrides the audit log artifact name
func WithLogName(name string) Option {
	return func(e *Exporter) {
		if name != "" {
			e.logName = name
		}
	}
}
