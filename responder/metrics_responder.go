package responder

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/0xERR0R/nsecguard/config"
	"github.com/0xERR0R/nsecguard/metrics"
	"github.com/0xERR0R/nsecguard/model"
)

// MetricsResponder records metrics about requests and responses
type MetricsResponder struct {
	configurable[*config.Metrics]
	NextResponder
	typed

	totalRequests     prometheus.Counter
	totalResponses    *prometheus.CounterVec
	totalErrors       prometheus.Counter
	durationHistogram *prometheus.HistogramVec
}

// NewMetricsResponder creates a new intance of the MetricsResponder type
func NewMetricsResponder(cfg config.Metrics) *MetricsResponder {
	m := &MetricsResponder{
		configurable: withConfig(&cfg),
		typed:        withType("metrics"),

		totalRequests:     totalRequestsMetric(),
		totalResponses:    totalResponsesMetric(),
		totalErrors:       totalErrorsMetric(),
		durationHistogram: durationHistogram(),
	}

	metrics.RegisterMetric(m.totalRequests)
	metrics.RegisterMetric(m.totalResponses)
	metrics.RegisterMetric(m.totalErrors)
	metrics.RegisterMetric(m.durationHistogram)

	return m
}

// Respond implements `Responder`
func (m *MetricsResponder) Respond(ctx context.Context, request *model.Request) (*model.Response, error) {
	response, err := m.next.Respond(ctx, request)

	if m.cfg.Enable {
		m.totalRequests.Inc()

		responseType := "err"
		if response != nil {
			responseType = response.RType.String()
		}

		m.durationHistogram.WithLabelValues(responseType).Observe(time.Since(request.RequestTS).Seconds())

		if err != nil {
			m.totalErrors.Inc()
		} else {
			m.totalResponses.WithLabelValues(responseType).Inc()
		}
	}

	return response, err
}

func totalRequestsMetric() prometheus.Counter {
	return prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nsecguard_request_total",
			Help: "Number of total requests",
		},
	)
}

func totalErrorsMetric() prometheus.Counter {
	return prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nsecguard_error_total",
			Help: "Number of total errors",
		},
	)
}

func durationHistogram() *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nsecguard_request_duration_seconds",
			Help:    "Request duration distribution",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"response_type"},
	)
}

func totalResponsesMetric() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nsecguard_response_total",
			Help: "Number of total responses",
		}, []string{"response_type"},
	)
}
