package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "valweek"

// Metrics holds the Prometheus collectors for the HTTP API.
type Metrics struct {
	Registry *prometheus.Registry

	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	UnlockChecks     *prometheus.CounterVec
	ConfessionSaves  *prometheus.CounterVec
	DBConnPoolStats  *prometheus.GaugeVec
}

// NewMetrics registers every collector on a fresh registry, so several
// instances can coexist in one process.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),
		UnlockChecks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "unlock_checks_total",
				Help:      "Unlock queries by day, mode and outcome",
			},
			[]string{"day", "mode", "unlocked"},
		),
		ConfessionSaves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "confession_saves_total",
				Help:      "Confession saves by day and result",
			},
			[]string{"day", "result"},
		),
		DBConnPoolStats: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connection_pool",
				Help:      "Database connection pool statistics",
			},
			[]string{"stat"},
		),
	}
}

// Middleware records count, latency and in-flight requests for every route.
func Middleware(m *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		m.RequestsInFlight.Inc()
		defer m.RequestsInFlight.Dec()

		start := time.Now()
		err := c.Next()

		// Route().Path is the pattern, which keeps label cardinality bounded.
		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		m.RequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		m.RequestCounter.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		return err
	}
}

// RecordUnlock counts one resolver query.
func (m *Metrics) RecordUnlock(day, mode string, unlocked bool) {
	m.UnlockChecks.WithLabelValues(day, mode, strconv.FormatBool(unlocked)).Inc()
}

// RecordConfessionSave counts one confession save attempt.
func (m *Metrics) RecordConfessionSave(day string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.ConfessionSaves.WithLabelValues(day, result).Inc()
}

// RecordDBPoolStats records database connection pool statistics
func (m *Metrics) RecordDBPoolStats(s sql.DBStats) {
	m.DBConnPoolStats.WithLabelValues("open").Set(float64(s.OpenConnections))
	m.DBConnPoolStats.WithLabelValues("in_use").Set(float64(s.InUse))
	m.DBConnPoolStats.WithLabelValues("idle").Set(float64(s.Idle))
	m.DBConnPoolStats.WithLabelValues("wait_count").Set(float64(s.WaitCount))
	m.DBConnPoolStats.WithLabelValues("wait_duration_ms").Set(float64(s.WaitDuration.Milliseconds()))
}
