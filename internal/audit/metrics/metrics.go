// Package metrics holds Prometheus instruments for the audit trail.
// Exposition is the embedding process's concern; this package only registers
// and increments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	EntriesWritten *prometheus.CounterVec
	WriteFailures  prometheus.Counter
	ListQueries    prometheus.Counter
	TimelineLoads  prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		EntriesWritten: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hospital_audit_entries_written_total",
			Help: "Total number of audit entries persisted, by action",
		}, []string{"action"}),
		WriteFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hospital_audit_write_failures_total",
			Help: "Total number of audit entry writes that failed",
		}),
		ListQueries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hospital_audit_list_queries_total",
			Help: "Total number of audit log list queries served",
		}),
		TimelineLoads: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hospital_audit_patient_timeline_loads_total",
			Help: "Total number of patient timeline aggregations served",
		}),
	}
}

func (m *Metrics) ObserveWrite(action string) {
	if m == nil {
		return
	}
	m.EntriesWritten.WithLabelValues(action).Inc()
}

func (m *Metrics) ObserveWriteFailure() {
	if m == nil {
		return
	}
	m.WriteFailures.Inc()
}

func (m *Metrics) ObserveList() {
	if m == nil {
		return
	}
	m.ListQueries.Inc()
}

func (m *Metrics) ObserveTimeline() {
	if m == nil {
		return
	}
	m.TimelineLoads.Inc()
}
