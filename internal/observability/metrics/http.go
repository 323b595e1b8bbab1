package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	chatRequestsTotal *prometheus.CounterVec
	chatContextTotal  *prometheus.CounterVec
	chatSourceChunks  *prometheus.HistogramVec
	chatDuration      *prometheus.HistogramVec
	uploadBytes       *prometheus.HistogramVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docassist",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docassist",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "docassist",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	chatRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docassist",
			Subsystem: "chat",
			Name:      "requests_total",
			Help:      "Total answered chat requests.",
		},
		[]string{"service"},
	)
	chatContextTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docassist",
			Subsystem: "chat",
			Name:      "context_total",
			Help:      "Chat requests by grounding context kind.",
		},
		[]string{"service", "context"},
	)
	chatSourceChunks := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docassist",
			Subsystem: "chat",
			Name:      "source_chunks",
			Help:      "Distribution of scored source chunks per answered chat request.",
			Buckets:   []float64{0, 1, 2, 3, 4},
		},
		[]string{"service"},
	)
	chatDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docassist",
			Subsystem: "chat",
			Name:      "duration_seconds",
			Help:      "Chat answer duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	uploadBytes := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docassist",
			Subsystem: "ingest",
			Name:      "upload_bytes",
			Help:      "Distribution of accepted upload sizes in bytes.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		chatRequestsTotal,
		chatContextTotal,
		chatSourceChunks,
		chatDuration,
		uploadBytes,
	)

	return &HTTPServerMetrics{
		registry:          registry,
		requestTotal:      requestTotal,
		requestDuration:   requestDuration,
		requestInFlight:   requestInFlight,
		chatRequestsTotal: chatRequestsTotal,
		chatContextTotal:  chatContextTotal,
		chatSourceChunks:  chatSourceChunks,
		chatDuration:      chatDuration,
		uploadBytes:       uploadBytes,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasSuffix(path, "/chat") && strings.HasPrefix(path, "/v1/documents/"):
		return "/v1/documents/{document_id}/chat"
	case strings.HasPrefix(path, "/v1/documents/"):
		return "/v1/documents/{document_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordChatAnswer(service string, sourceCount int, duration time.Duration) {
	m.chatRequestsTotal.WithLabelValues(service).Inc()
	m.chatSourceChunks.WithLabelValues(service).Observe(float64(sourceCount))
	m.chatDuration.WithLabelValues(service).Observe(duration.Seconds())

	context := "chunks"
	if sourceCount == 0 {
		context = "fallback"
	}
	m.chatContextTotal.WithLabelValues(service, context).Inc()
}

func (m *HTTPServerMetrics) RecordUploadSize(service string, bytes int64) {
	if bytes <= 0 {
		return
	}
	m.uploadBytes.WithLabelValues(service).Observe(float64(bytes))
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
