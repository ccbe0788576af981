// Package metrics exposes Prometheus collectors for uploads, spreadsheet
// calls, sign-ins and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	uploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealerdocs_uploads_total",
			Help: "Files sent to the file host, by outcome.",
		},
		[]string{"status"},
	)

	uploadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dealerdocs_upload_duration_seconds",
		Help:    "Time to upload one file.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	uploadBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dealerdocs_upload_bytes_total",
		Help: "Bytes of successfully uploaded files.",
	})

	googleRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealerdocs_google_requests_total",
			Help: "Requests to Google APIs, by api, operation and status.",
		},
		[]string{"api", "op", "status"},
	)

	upsertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealerdocs_upserts_total",
			Help: "Record upserts, by result (updated, appended, failed).",
		},
		[]string{"result"},
	)

	signInsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dealerdocs_sign_ins_total",
			Help: "Sign-in attempts, by outcome.",
		},
		[]string{"outcome"},
	)

	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dealerdocs_http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dealerdocs_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	registerOnce sync.Once
)

// Init registers every collector with the default registry. Safe to call
// more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			uploadsTotal,
			uploadDuration,
			uploadBytes,
			googleRequestsTotal,
			upsertsTotal,
			signInsTotal,
			httpInFlight,
			httpRequestDuration,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveUpload(ok bool, size int64, d time.Duration) {
	status := "done"
	if !ok {
		status = "error"
	} else {
		uploadBytes.Add(float64(size))
	}
	uploadsTotal.WithLabelValues(status).Inc()
	uploadDuration.Observe(d.Seconds())
}

func ObserveGoogleRequest(api, op string, status int) {
	googleRequestsTotal.WithLabelValues(api, op, strconv.Itoa(status)).Inc()
}

func ObserveUpsert(result string) {
	upsertsTotal.WithLabelValues(result).Inc()
}

func ObserveSignIn(outcome string) {
	signInsTotal.WithLabelValues(outcome).Inc()
}

// Middleware records latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		httpInFlight.Inc()
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
		httpInFlight.Dec()
	}
}
