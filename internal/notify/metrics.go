package notify

import "github.com/prometheus/client_golang/prometheus"

var (
	MetricsDelivered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifications_delivered_total",
		Help: "Notifications accepted by the mail transport",
	})
	MetricsSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifications_skipped_total",
		Help: "Notifications skipped (no destination or transport not configured)",
	})
	MetricsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifications_failed_total",
		Help: "Notifications whose single delivery attempt errored",
	})
)

func init() {
	prometheus.MustRegister(
		MetricsDelivered,
		MetricsSkipped,
		MetricsFailed,
	)
}

func record(o Outcome) {
	switch o {
	case OutcomeDelivered:
		MetricsDelivered.Inc()
	case OutcomeSkipped:
		MetricsSkipped.Inc()
	case OutcomeFailed:
		MetricsFailed.Inc()
	}
}
