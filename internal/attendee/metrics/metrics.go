// Package metrics provides observability for the roster module.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for roster operations.
type Metrics struct {
	// Records created, labelled by partition ("attendee" or "vendor").
	RecordsCreated *prometheus.CounterVec

	// Records deleted, labelled by cause ("admin" or "merge").
	RecordsDeleted *prometheus.CounterVec
}

// New creates and registers all roster metrics.
func New() *Metrics {
	return &Metrics{
		RecordsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "eventdesk_roster_records_created_total",
			Help: "Total roster records created by partition",
		}, []string{"partition"}),

		RecordsDeleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "eventdesk_roster_records_deleted_total",
			Help: "Total roster records deleted by cause",
		}, []string{"cause"}),
	}
}

// IncrementCreated records a roster record creation.
func (m *Metrics) IncrementCreated(isVendor bool) {
	if m != nil {
		m.RecordsCreated.WithLabelValues(partitionLabel(isVendor)).Inc()
	}
}

// IncrementDeleted records a roster record deletion.
func (m *Metrics) IncrementDeleted(cause string) {
	if m != nil {
		m.RecordsDeleted.WithLabelValues(cause).Inc()
	}
}

func partitionLabel(isVendor bool) string {
	if isVendor {
		return "vendor"
	}
	return "attendee"
}
