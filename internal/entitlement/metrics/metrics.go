package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the entitlement module.
type Metrics struct {
	// Catalog cache lookups by result ("hit" or "miss").
	CatalogCache *prometheus.CounterVec

	// Plan feature mutations by kind ("add" or "remove").
	FeatureChanges *prometheus.CounterVec

	// Features skipped because the catalog has no entry for them. Nonzero
	// values mean catalog drift.
	CatalogDrift prometheus.Counter
}

// New creates and registers all entitlement metrics.
func New() *Metrics {
	return &Metrics{
		CatalogCache: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "eventdesk_entitlement_catalog_cache_total",
			Help: "Total feature catalog cache lookups by result",
		}, []string{"result"}),

		FeatureChanges: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "eventdesk_entitlement_feature_changes_total",
			Help: "Total plan feature changes applied by kind",
		}, []string{"kind"}),

		CatalogDrift: promauto.NewCounter(prometheus.CounterOpts{
			Name: "eventdesk_entitlement_catalog_drift_total",
			Help: "Total features skipped because the catalog lacks an entry",
		}),
	}
}

// IncrementCatalogCache records a catalog cache lookup result.
func (m *Metrics) IncrementCatalogCache(result string) {
	if m != nil {
		m.CatalogCache.WithLabelValues(result).Inc()
	}
}

// AddFeatureChanges records applied plan feature mutations.
func (m *Metrics) AddFeatureChanges(kind string, n int) {
	if m != nil {
		m.FeatureChanges.WithLabelValues(kind).Add(float64(n))
	}
}

// IncrementCatalogDrift records a feature with no catalog entry.
func (m *Metrics) IncrementCatalogDrift(n int) {
	if m != nil {
		m.CatalogDrift.Add(float64(n))
	}
}
