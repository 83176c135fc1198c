package leave

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts lifecycle transitions. A nil *Metrics records nothing.
type Metrics struct {
	created   *prometheus.CounterVec
	responded *prometheus.CounterVec
	cancelled prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leave_requests_created_total",
			Help: "Leave requests created, by leave type.",
		}, []string{"type"}),
		responded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leave_requests_responded_total",
			Help: "Leave requests approved or rejected, by leave type and decision.",
		}, []string{"type", "decision"}),
		cancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leave_requests_cancelled_total",
			Help: "Pending leave requests cancelled by their owner.",
		}),
	}
	reg.MustRegister(m.created, m.responded, m.cancelled)
	return m
}

func (m *Metrics) observeCreated(leaveType string) {
	if m == nil {
		return
	}
	m.created.WithLabelValues(leaveType).Inc()
}

func (m *Metrics) observeResponded(leaveType string, decision Status) {
	if m == nil {
		return
	}
	m.responded.WithLabelValues(leaveType, string(decision)).Inc()
}

func (m *Metrics) observeCancelled() {
	if m == nil {
		return
	}
	m.cancelled.Inc()
}
