package adapthttp

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nutriassess/internal/domain"
)

// Calculation operations reported in metrics.
const (
	opBodyComposition = "body_composition"
	opEnergyProfile   = "energy_profile"
)

// Metrics holds the Prometheus collectors exported at /metrics.
type Metrics struct {
	registry     *prometheus.Registry
	calculations *prometheus.CounterVec
	requests     *prometheus.HistogramVec
}

// NewMetrics creates a registry with process and Go runtime collectors plus
// the service's own metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nutriassess",
			Name:      "calculations_total",
			Help:      "Engine calculations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "nutriassess",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.calculations,
		m.requests,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveCalculation counts one engine call.
func (m *Metrics) ObserveCalculation(operation string, err error) {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues(operation, outcome(err)).Inc()
}

func (m *Metrics) observeRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

func outcome(err error) string {
	var (
		ve *domain.ValidationError
		ee *domain.InvalidEnumError
		me *domain.MissingInputError
		ie *domain.InfeasibleAllocationError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &ve), errors.As(err, &ee):
		return "invalid_input"
	case errors.As(err, &me):
		return "missing_input"
	case errors.As(err, &ie):
		return "infeasible"
	default:
		return "error"
	}
}
