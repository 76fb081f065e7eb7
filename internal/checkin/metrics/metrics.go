package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the check-in module.
type Metrics struct {
	// Scans recorded, labelled by outcome ("recorded" or "duplicate").
	Scans *prometheus.CounterVec

	// Desk keys issued.
	DeskKeysIssued prometheus.Counter
}

// New creates and registers all check-in metrics.
func New() *Metrics {
	return &Metrics{
		Scans: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "eventdesk_checkin_scans_total",
			Help: "Total check-in scan attempts by outcome",
		}, []string{"outcome"}),

		DeskKeysIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "eventdesk_checkin_desk_keys_issued_total",
			Help: "Total desk keys issued",
		}),
	}
}

// IncrementScan records a scan attempt outcome.
func (m *Metrics) IncrementScan(outcome string) {
	if m != nil {
		m.Scans.WithLabelValues(outcome).Inc()
	}
}

// IncrementDeskKeyIssued records a desk key issuance.
func (m *Metrics) IncrementDeskKeyIssued() {
	if m != nil {
		m.DeskKeysIssued.Inc()
	}
}
