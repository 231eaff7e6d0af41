package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "brandnav"

// IncrementalCounter counts events by label values.
type IncrementalCounter interface {
	Increment(val ...string)
}

type Counter struct {
	Name string
	Help string

	vec *prometheus.CounterVec
}

func (c *Counter) Increment(val ...string) {
	c.vec.WithLabelValues(val...).Inc()
}

func NewCounterWithRegistry(reg prometheus.Registerer, name, help string, labels ...string) IncrementalCounter {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, labels)

	reg.MustRegister(counter)

	return &Counter{
		Name: name,
		Help: help,
		vec:  counter,
	}
}

// Nop discards increments.
type Nop struct{}

func (Nop) Increment(...string) {}

// Header holds the counters of the header service.
type Header struct {
	// TreeBuilds counts navigation trees built from raw menus, by menu.
	TreeBuilds IncrementalCounter

	// CacheLookups counts tree cache lookups, by menu and result (hit or miss).
	CacheLookups IncrementalCounter

	// ProviderErrors counts failed menu or trail loads, by menu and source.
	ProviderErrors IncrementalCounter
}

// NewHeader registers the header counters with reg.
func NewHeader(reg prometheus.Registerer) *Header {
	return &Header{
		TreeBuilds:     NewCounterWithRegistry(reg, "tree_builds_total", "Navigation trees built from raw menus.", "menu"),
		CacheLookups:   NewCounterWithRegistry(reg, "tree_cache_lookups_total", "Navigation tree cache lookups.", "menu", "result"),
		ProviderErrors: NewCounterWithRegistry(reg, "provider_errors_total", "Failed menu or trail loads.", "menu", "source"),
	}
}

// NopHeader returns counters that record nothing.
func NopHeader() *Header {
	return &Header{TreeBuilds: Nop{}, CacheLookups: Nop{}, ProviderErrors: Nop{}}
}

// GetHandlerForRegistry returns an HTTP handler for serving Prometheus metrics from a custom registry.
func GetHandlerForRegistry(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
