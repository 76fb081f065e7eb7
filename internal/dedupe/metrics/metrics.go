package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the dedupe module.
type Metrics struct {
	// Duplicate groups found per detection run, by group kind
	GroupsDetected *prometheus.CounterVec

	// Full detection latency including the roster fetch
	DetectLatency prometheus.Histogram

	// Merge outcomes by result
	MergeOutcome *prometheus.CounterVec

	// Records folded into a primary across all merges
	RecordsMerged prometheus.Counter
}

// New creates a new Metrics instance with all dedupe module metrics registered.
func New() *Metrics {
	return &Metrics{
		GroupsDetected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "eventdesk_dedupe_groups_detected_total",
			Help: "Total duplicate groups detected by kind",
		}, []string{"kind"}), // kind: "email", "name_org"

		DetectLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "eventdesk_dedupe_detect_duration_seconds",
			Help:    "Duration of duplicate detection including the roster fetch",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		MergeOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "eventdesk_dedupe_merge_outcomes_total",
			Help: "Total merge attempts by outcome",
		}, []string{"outcome"}), // outcome: "merged", "rejected", "failed"

		RecordsMerged: promauto.NewCounter(prometheus.CounterOpts{
			Name: "eventdesk_dedupe_records_merged_total",
			Help: "Total duplicate records folded into a surviving primary",
		}),
	}
}

// IncrementGroups records detected groups of the given kind.
func (m *Metrics) IncrementGroups(kind string, n int) {
	if m != nil {
		m.GroupsDetected.WithLabelValues(kind).Add(float64(n))
	}
}

// ObserveDetectLatency records the duration of a detection run.
func (m *Metrics) ObserveDetectLatency(d time.Duration) {
	if m != nil {
		m.DetectLatency.Observe(d.Seconds())
	}
}

// IncrementMergeOutcome records a merge attempt outcome.
func (m *Metrics) IncrementMergeOutcome(outcome string) {
	if m != nil {
		m.MergeOutcome.WithLabelValues(outcome).Inc()
	}
}

// AddRecordsMerged records how many duplicates a merge removed.
func (m *Metrics) AddRecordsMerged(n int) {
	if m != nil {
		m.RecordsMerged.Add(float64(n))
	}
}
