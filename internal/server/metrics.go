package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cybergodev/virtualize"
)

const namespace = "virtualize"

type metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// newMetrics registers request metrics and processor statistics on reg.
// Processor counters are read at scrape time.
func newMetrics(reg prometheus.Registerer, p *virtualize.Processor) *metrics {
	factory := promauto.With(reg)

	stat := func(name, help string, read func(virtualize.Statistics) float64) {
		factory.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, func() float64 { return read(p.GetStatistics()) })
	}
	stat("conversions_total", "Total number of successful conversions",
		func(s virtualize.Statistics) float64 { return float64(s.TotalProcessed) })
	stat("nodes_created_total", "Total number of virtual nodes created",
		func(s virtualize.Statistics) float64 { return float64(s.NodesCreated) })
	stat("cache_hits_total", "Total number of conversion cache hits",
		func(s virtualize.Statistics) float64 { return float64(s.CacheHits) })
	stat("cache_misses_total", "Total number of conversion cache misses",
		func(s virtualize.Statistics) float64 { return float64(s.CacheMisses) })
	stat("errors_total", "Total number of failed conversions",
		func(s virtualize.Statistics) float64 { return float64(s.ErrorCount) })

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_entries",
		Help:      "Number of entries in the conversion cache",
	}, func() float64 { return float64(p.GetStatistics().CacheEntries) })

	return &metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"route", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

func (m *metrics) observe(route string, status int, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (s *Server) metricsHandler() http.Handler {
	return promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})
}
