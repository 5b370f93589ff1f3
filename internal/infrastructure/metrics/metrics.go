package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fms"

// Collector owns the application's prometheus series. It satisfies the
// service layer's Metrics interface.
type Collector struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	transitions   *prometheus.CounterVec
	notifications *prometheus.CounterVec
}

// NewCollector registers every series on a fresh registry, together with the
// Go runtime and process collectors.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_transitions_total",
			Help:      "Document status transitions by document, action and result",
		}, []string{"document", "action", "result"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification deliveries by channel and result",
		}, []string{"channel", "result"}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.httpRequests,
		c.httpDuration,
		c.transitions,
		c.notifications,
	)
	return c
}

// Registry exposes the underlying registry for tests and extra collectors
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) ObserveTransition(document, action, result string) {
	c.transitions.WithLabelValues(document, action, result).Inc()
}

func (c *Collector) ObserveNotification(channel, result string) {
	c.notifications.WithLabelValues(channel, result).Inc()
}

// Handler serves the registry in the prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Middleware records request count and latency. The matched route template
// is used as the path label so ids do not explode cardinality.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		path := ctx.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := ctx.Request.Method

		c.httpRequests.WithLabelValues(method, path, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
