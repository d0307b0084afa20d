package telemetry

import (
	"context"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stayfix/stayfix/internal/core/events"
)

type MetricName string

const (
	MetricHTTPRequestsTotal   MetricName = "http_requests_total"
	MetricHTTPRequestDuration MetricName = "http_request_duration_seconds"
	MetricRemindersTotal      MetricName = "reminders_total"
	MetricDomainEventsTotal   MetricName = "domain_events_total"
)

type LabelName string

const (
	LabelMethod  LabelName = "method"
	LabelRoute   LabelName = "route"
	LabelStatus  LabelName = "status"
	LabelOutcome LabelName = "outcome"
	LabelType    LabelName = "type"
)

// Reminder outcomes.
const (
	OutcomeDispatched = "dispatched"
	OutcomeSkipped    = "skipped"
	OutcomeFailed     = "failed"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	RemindersTotal      *prometheus.CounterVec
	DomainEventsTotal   *prometheus.CounterVec
	registry            *prometheus.Registry
}

// NewMetrics registers every collector on a private registry so that several
// instances can coexist in one process.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)
	prefix := metricPrefix(namespace)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(MetricHTTPRequestsTotal),
				Help: "Handled HTTP requests",
			},
			labelNames(LabelMethod, LabelRoute, LabelStatus),
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + string(MetricHTTPRequestDuration),
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			labelNames(LabelMethod, LabelRoute),
		),
		RemindersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(MetricRemindersTotal),
				Help: "Expiry reminders by outcome",
			},
			labelNames(LabelOutcome),
		),
		DomainEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + string(MetricDomainEventsTotal),
				Help: "Published domain events by type",
			},
			labelNames(LabelType),
		),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ReminderOutcome increments the reminder counter. Safe on a nil receiver.
func (m *Metrics) ReminderOutcome(outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RemindersTotal.WithLabelValues(outcome).Add(float64(n))
}

// EventHandler counts every event it receives.
func (m *Metrics) EventHandler() events.Handler {
	return func(_ context.Context, e events.Event) error {
		m.DomainEventsTotal.WithLabelValues(e.EventType()).Inc()
		return nil
	}
}

func metricPrefix(namespace string) string {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		return ""
	}
	return namespace + "_"
}

func labelNames(labels ...LabelName) []string {
	strs := make([]string, len(labels))
	for i, l := range labels {
		strs[i] = string(l)
	}
	return strs
}
