package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records order creation and notification outcomes.
type StorefrontMetrics struct {
	ordersCreated  *prometheus.CounterVec
	notifyAttempts *prometheus.CounterVec
	notifyOutcomes *prometheus.CounterVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided
// registerer. A nil registerer yields a no-op recorder, which tests use.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders successfully persisted, by payment method.",
	}, []string{"payment_method"})
	notifyAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notify_channel_attempts_total",
		Help: "Notification channel attempts, by channel and result.",
	}, []string{"channel", "result"})
	notifyOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notify_outcomes_total",
		Help: "Overall notification dispatch outcomes.",
	}, []string{"outcome"})
	reg.MustRegister(ordersCreated, notifyAttempts, notifyOutcomes)
	return &StorefrontMetrics{
		ordersCreated:  ordersCreated,
		notifyAttempts: notifyAttempts,
		notifyOutcomes: notifyOutcomes,
	}
}

// IncOrderCreated increments the created-orders counter.
func (m *StorefrontMetrics) IncOrderCreated(paymentMethod string) {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.WithLabelValues(paymentMethod).Inc()
}

// IncNotifyAttempt records one channel attempt.
func (m *StorefrontMetrics) IncNotifyAttempt(channel, result string) {
	if m == nil || m.notifyAttempts == nil {
		return
	}
	m.notifyAttempts.WithLabelValues(channel, result).Inc()
}

// IncNotifyOutcome records the overall dispatch outcome.
func (m *StorefrontMetrics) IncNotifyOutcome(outcome string) {
	if m == nil || m.notifyOutcomes == nil {
		return
	}
	m.notifyOutcomes.WithLabelValues(outcome).Inc()
}
