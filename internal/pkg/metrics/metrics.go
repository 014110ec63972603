package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routekit",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "routekit",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "routekit",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Optimizer metrics
	WaypointsOptimized = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routekit",
		Subsystem: "waypoints",
		Name:      "optimized_total",
		Help:      "Total waypoint optimizations served",
	}, []string{"source"})

	OptimizationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "routekit",
		Subsystem: "waypoints",
		Name:      "optimization_duration_seconds",
		Help:      "Time spent ordering waypoints",
		Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1},
	})

	RoutePoints = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "routekit",
		Subsystem: "waypoints",
		Name:      "route_points",
		Help:      "Number of waypoints per optimization request",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 11),
	})

	RouteDistance = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "routekit",
		Subsystem: "waypoints",
		Name:      "route_distance_km",
		Help:      "Great-circle length of optimized routes in kilometers",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})

	// Usage ledger metrics
	UsageDebits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routekit",
		Subsystem: "usage",
		Name:      "debits_total",
		Help:      "Route calculation debits by outcome",
	}, []string{"outcome"})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routekit",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routekit",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "routekit",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "routekit",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "routekit",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		// Route pattern, not the raw URL, keeps label cardinality bounded.
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}

// PoolStat is the subset of pgxpool.Stat read by UpdateDBPoolMetrics.
type PoolStat interface {
	AcquiredConns() int32
	IdleConns() int32
	TotalConns() int32
}

// UpdateDBPoolMetrics copies pool gauges from a pgx pool snapshot.
func UpdateDBPoolMetrics(s PoolStat) {
	DBPoolConnsAcquired.Set(float64(s.AcquiredConns()))
	DBPoolConnsIdle.Set(float64(s.IdleConns()))
	DBPoolConnsOpen.Set(float64(s.TotalConns()))
}
