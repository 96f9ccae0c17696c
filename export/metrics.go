package export

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "protograph"

type metrics struct {
	nodes         prometheus.Counter
	relationships prometheus.Counter
	dropped       prometheus.Counter
}

func newMetrics(registerer prometheus.Registerer) *metrics {
	ret := &metrics{
		nodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "nodes_total",
			Help:      "Nodes created in the graph store.",
		}),
		relationships: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "relationships_total",
			Help:      "Relationships created in the graph store.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "relationships_dropped_total",
			Help:      "Relationships skipped because an endpoint has no node.",
		}),
	}
	if registerer == nil {
		return ret
	}
	ret.nodes = register(registerer, ret.nodes)
	ret.relationships = register(registerer, ret.relationships)
	ret.dropped = register(registerer, ret.dropped)
	return ret
}

// register returns the already registered counter when an exporter is created more than once
func register(registerer prometheus.Registerer, counter prometheus.Counter) prometheus.Counter {
	err := registerer.Register(counter)
	if err == nil {
		return counter
	}
	var registered prometheus.AlreadyRegisteredError
	if errors.As(err, &registered) {
		if existing, ok := registered.ExistingCollector.(prometheus.Counter); ok {
			return existing
		}
	}
	return counter
}
