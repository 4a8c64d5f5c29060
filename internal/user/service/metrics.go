package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts account events. A nil *Metrics records nothing.
type Metrics struct {
	registrations *prometheus.CounterVec
	logins        *prometheus.CounterVec
	confirmations *prometheus.CounterVec
	mails         *prometheus.CounterVec
}

func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		registrations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Accounts created, by provider.",
		}, []string{"provider"}),
		logins: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts, by provider and result.",
		}, []string{"provider", "result"}),
		confirmations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registration_confirmations_total",
			Help:      "Email confirmations, by result.",
		}, []string{"result"}),
		mails: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mails_sent_total",
			Help:      "Outbound mails, by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) registered(provider string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(provider).Inc()
}

func (m *Metrics) login(provider, result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(provider, result).Inc()
}

func (m *Metrics) confirmation(result string) {
	if m == nil {
		return
	}
	m.confirmations.WithLabelValues(result).Inc()
}

func (m *Metrics) mailSent(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.mails.WithLabelValues(result).Inc()
}
