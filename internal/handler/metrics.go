package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Metrics holds all Prometheus collectors for the custom-fields backend.
var Metrics = struct {
	FieldsCreated    *prometheus.CounterVec
	ValuesSet        prometheus.Counter
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	DBPoolActive     prometheus.GaugeFunc
	DBPoolIdle       prometheus.GaugeFunc
}{}

// InitMetrics registers all Prometheus metrics. Call once at startup.
func InitMetrics(pool *pgxpool.Pool) {
	Metrics.FieldsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookmarks_custom_fields_created_total",
			Help: "Total custom fields created, by field type.",
		},
		[]string{"field_type"},
	)

	Metrics.ValuesSet = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bookmarks_field_values_set_total",
			Help: "Total field values written through the batch endpoint.",
		},
	)

	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookmarks_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	Metrics.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookmarks_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	// DB pool gauges read live stats from pgxpool.
	if pool != nil {
		Metrics.DBPoolActive = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "bookmarks_db_connection_pool_active",
				Help: "Number of active database connections.",
			},
			func() float64 {
				return float64(pool.Stat().AcquiredConns())
			},
		)

		Metrics.DBPoolIdle = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "bookmarks_db_connection_pool_idle",
				Help: "Number of idle database connections.",
			},
			func() float64 {
				return float64(pool.Stat().IdleConns())
			},
		)

		prometheus.MustRegister(Metrics.DBPoolActive, Metrics.DBPoolIdle)
	}

	prometheus.MustRegister(
		Metrics.FieldsCreated,
		Metrics.ValuesSet,
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
	)
}

// MetricsMiddleware records request duration and in-flight count for Prometheus.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Don't instrument the /metrics endpoint itself
		if c.Path() == "/metrics" {
			return c.Next()
		}

		// Copy path and method into owned strings before c.Next() because Fiber
		// returns slices backed by the fasthttp buffer which can be reused
		// or overwritten by handlers (especially fasthttpadaptor).
		path := string([]byte(c.Path()))
		method := string([]byte(c.Method()))
		endpoint := sanitizeEndpoint(path)

		Metrics.RequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())

		Metrics.RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)
		Metrics.RequestsInFlight.Dec()

		return err
	}
}

// sanitizeEndpoint normalizes paths to avoid cardinality explosion.
func sanitizeEndpoint(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/lists/"):
		rest := path[len("/api/lists/"):]
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			return "/api/lists/:listId/" + routeSuffix(rest[i+1:])
		}
		return "/api/lists/:listId"
	case strings.HasPrefix(path, "/api/videos/"):
		return "/api/videos/:videoId/fields"
	case strings.HasPrefix(path, "/api/custom-fields/"):
		return "/api/custom-fields/:fieldId"
	default:
		return path
	}
}

// routeSuffix collapses the id segments after the list scope.
func routeSuffix(rest string) string {
	parts := strings.Split(rest, "/")
	switch parts[0] {
	case "custom-fields":
		if len(parts) > 1 && parts[1] == "check-duplicate" {
			return "custom-fields/check-duplicate"
		}
		if len(parts) > 1 && parts[1] == "stats" {
			return "custom-fields/stats"
		}
		return "custom-fields"
	case "schemas":
		switch len(parts) {
		case 1:
			return "schemas"
		case 2:
			return "schemas/:schemaId"
		case 3:
			return "schemas/:schemaId/fields"
		default:
			return "schemas/:schemaId/fields/:fieldId"
		}
	}
	return rest
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
