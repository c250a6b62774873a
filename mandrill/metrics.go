package mandrill

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Send outcomes recorded by Metrics.
const (
	OutcomeSuccess = "success"
	OutcomePartial = "partial"
	OutcomeError   = "error"
)

// Metrics records send outcomes. A nil *Metrics records nothing.
type Metrics struct {
	Sends        *prometheus.CounterVec
	Recipients   *prometheus.CounterVec
	SendDuration prometheus.Histogram
}

// NewMetrics creates the send metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if namespace == "" {
		namespace = "mail"
	}

	subsystem := "mandrill"
	factory := promauto.With(reg)

	return &Metrics{
		Sends: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sends_total",
				Help:      "Total messages handed to the API by outcome",
			},
			[]string{"outcome"},
		),
		Recipients: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "recipients_total",
				Help:      "Total recipient results by delivery status",
			},
			[]string{"status"},
		),
		SendDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "send_duration_seconds",
				Help:      "Duration of messages/send calls",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
}

func (m *Metrics) observeSend(outcome string, d time.Duration) {
	if m == nil {
		return
	}

	m.Sends.WithLabelValues(outcome).Inc()
	m.SendDuration.Observe(d.Seconds())
}

func (m *Metrics) observeRecipients(results []RecipientResult) {
	if m == nil {
		return
	}

	for _, r := range results {
		m.Recipients.WithLabelValues(r.Status).Inc()
	}
}
