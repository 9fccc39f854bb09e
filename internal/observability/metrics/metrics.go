package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters for the booking and notification flows.
type BookingMetrics struct {
	createdTotal    prometheus.Counter
	duplicatesTotal prometheus.Counter
	emailTotal      *prometheus.CounterVec
	emailRetries    prometheus.Counter
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		createdTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "booking",
			Name:      "created_total",
			Help:      "Total bookings inserted",
		}),
		duplicatesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "booking",
			Name:      "duplicates_suppressed_total",
			Help:      "Total duplicate booking submissions suppressed",
		}),
		emailTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "notify",
			Name:      "email_total",
			Help:      "Total confirmation email deliveries by outcome",
		}, []string{"status"}),
		emailRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "notify",
			Name:      "email_retries_total",
			Help:      "Total confirmation email delivery retries",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.createdTotal, m.duplicatesTotal, m.emailTotal, m.emailRetries)
	return m
}

func (m *BookingMetrics) ObserveCreate(created bool) {
	if m == nil {
		return
	}
	if created {
		m.createdTotal.Inc()
	} else {
		m.duplicatesTotal.Inc()
	}
}

func (m *BookingMetrics) ObserveEmail(status string) {
	if m == nil {
		return
	}
	m.emailTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveEmailRetry() {
	if m == nil {
		return
	}
	m.emailRetries.Inc()
}
