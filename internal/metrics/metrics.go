// Package metrics exposes Prometheus instruments for the HTTP surface, the
// downstream captioning calls and the file store.
//
// A nil *Recorder is valid and records nothing, so components can take one
// unconditionally.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "captionrelay"

// Recorder holds the registered collectors.
type Recorder struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	captions        *prometheus.CounterVec
	captionDuration prometheus.Histogram
	storedBytes     prometheus.Counter
	storedFiles     prometheus.Counter
	mirrorFailures  prometheus.Counter
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		captions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "caption_requests_total",
			Help:      "Calls to the captioning service by outcome",
		}, []string{"outcome"}),

		captionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "caption_duration_seconds",
			Help:      "Latency of calls to the captioning service",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),

		storedBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stored_bytes_total",
			Help:      "Bytes written to the uploads directory",
		}),

		storedFiles: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stored_files_total",
			Help:      "Files written to the uploads directory",
		}),

		mirrorFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mirror_failures_total",
			Help:      "Stored files that could not be copied to the mirror bucket",
		}),
	}
}

// ObserveRequest records one HTTP request. An empty route (no match) is
// reported as "unmatched" to keep label cardinality bounded.
func (r *Recorder) ObserveRequest(method, route string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	method = strings.ToUpper(method)
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveCaption records one captioning call. outcome is "success" or the
// error kind.
func (r *Recorder) ObserveCaption(outcome string, duration time.Duration) {
	if r == nil {
		return
	}
	r.captions.WithLabelValues(outcome).Inc()
	r.captionDuration.Observe(duration.Seconds())
}

// ObserveStored records a file written to disk.
func (r *Recorder) ObserveStored(size int64) {
	if r == nil {
		return
	}
	r.storedFiles.Inc()
	if size > 0 {
		r.storedBytes.Add(float64(size))
	}
}

// MirrorFailed counts a failed mirror upload.
func (r *Recorder) MirrorFailed() {
	if r == nil {
		return
	}
	r.mirrorFailures.Inc()
}
