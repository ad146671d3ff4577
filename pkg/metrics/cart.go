package metrics

import "github.com/prometheus/client_golang/prometheus"

// CartMetrics counts ledger operations and optimistic-concurrency retries.
type CartMetrics struct {
	operations *prometheus.CounterVec
	conflicts  *prometheus.CounterVec
	cache      *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart ledger operations by name and outcome.",
	}, []string{"operation", "outcome"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_version_conflicts_total",
		Help: "Version conflicts that caused a cart mutation to be retried.",
	}, []string{"operation"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_cache_lookups_total",
		Help: "Cart cache lookups by result.",
	}, []string{"result"})
	reg.MustRegister(operations, conflicts, cache)
	return &CartMetrics{operations: operations, conflicts: conflicts, cache: cache}
}

// IncOperation records the outcome ("ok" or an error code) of a ledger operation.
func (c *CartMetrics) IncOperation(operation, outcome string) {
	if c == nil || c.operations == nil {
		return
	}
	c.operations.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome)).Inc()
}

// IncConflict records a compare-and-swap retry.
func (c *CartMetrics) IncConflict(operation string) {
	if c == nil || c.conflicts == nil {
		return
	}
	c.conflicts.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncCache records a cache "hit", "miss" or "error".
func (c *CartMetrics) IncCache(result string) {
	if c == nil || c.cache == nil {
		return
	}
	c.cache.WithLabelValues(normalizeLabel(result)).Inc()
}
