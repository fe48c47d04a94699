package metrics

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus holds the service collectors. Registering twice on the same
// registerer reuses the collectors already there.
type Prometheus struct {
	httpRequestsTotal     *prometheus.CounterVec
	httpRequestDuration   *prometheus.HistogramVec
	recordOperationsTotal *prometheus.CounterVec
	recordsStored         prometheus.Gauge
	eventsPublishedTotal  *prometheus.CounterVec
}

func NewDefault() (*Prometheus, error) {
	return NewPrometheus(prometheus.DefaultRegisterer)
}

func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Prometheus{
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "recordstore",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by method, matched route and status code.",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "recordstore",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency by method and matched route.",
				Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"method", "route"},
		),
		recordOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "recordstore",
				Subsystem: "store",
				Name:      "operations_total",
				Help:      "Record store operations by kind and result.",
			},
			[]string{"op", "result"},
		),
		recordsStored: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "recordstore",
				Subsystem: "store",
				Name:      "records",
				Help:      "Number of records currently held by the store.",
			},
		),
		eventsPublishedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "recordstore",
				Subsystem: "events",
				Name:      "published_total",
				Help:      "Record change events handed to the broker, by event type and result.",
			},
			[]string{"type", "result"},
		),
	}

	if err := registerOrReuse(reg, &m.httpRequestsTotal); err != nil {
		return nil, fmt.Errorf("register http requests counter: %w", err)
	}
	if err := registerOrReuse(reg, &m.httpRequestDuration); err != nil {
		return nil, fmt.Errorf("register http duration histogram: %w", err)
	}
	if err := registerOrReuse(reg, &m.recordOperationsTotal); err != nil {
		return nil, fmt.Errorf("register record operations counter: %w", err)
	}
	if err := registerOrReuse(reg, &m.recordsStored); err != nil {
		return nil, fmt.Errorf("register records gauge: %w", err)
	}
	if err := registerOrReuse(reg, &m.eventsPublishedTotal); err != nil {
		return nil, fmt.Errorf("register events counter: %w", err)
	}
	return m, nil
}

func registerOrReuse[C prometheus.Collector](reg prometheus.Registerer, c *C) error {
	if err := reg.Register(*c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return err
		}
		existing, ok := already.ExistingCollector.(C)
		if !ok {
			return fmt.Errorf("collector type mismatch for %T", *c)
		}
		*c = existing
	}
	return nil
}

func (m *Prometheus) ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Prometheus) IncRecordOperation(op string, err error) {
	m.recordOperationsTotal.WithLabelValues(op, resultLabel(err)).Inc()
}

func (m *Prometheus) SetRecordsStored(n int) {
	if n < 0 {
		n = 0
	}
	m.recordsStored.Set(float64(n))
}

func (m *Prometheus) IncEventPublished(eventType string, err error) {
	m.eventsPublishedTotal.WithLabelValues(eventType, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
