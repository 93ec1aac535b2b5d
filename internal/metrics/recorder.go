package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/serroba/linkshorter/internal/barcode"
	"github.com/serroba/linkshorter/internal/shortener"
)

const namespace = "linkshorter"

// Recorder exports service counters and HTTP request metrics to Prometheus.
type Recorder struct {
	shortLinks     *prometheus.CounterVec
	collisions     prometheus.Counter
	barcodeLookups *prometheus.CounterVec
	barcodeErrors  *prometheus.CounterVec
	orphans        prometheus.Counter

	// route is the operation path template, never the raw path, to bound label cardinality.
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInflight prometheus.Gauge
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		shortLinks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "short_links_total",
			Help:      "Create requests by outcome (created or deduplicated).",
		}, []string{"outcome"}),
		collisions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_collisions_total",
			Help:      "Generated tokens that were already taken.",
		}),
		barcodeLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "barcode_lookups_total",
			Help:      "Barcode requests by result (hit or miss).",
		}, []string{"result"}),
		barcodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "barcode_failures_total",
			Help:      "Barcode failures by error kind.",
		}, []string{"kind"}),
		orphans: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "barcode_orphans_removed_total",
			Help:      "Orphaned barcode blobs deleted by the sweeper.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency distributions.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Current number of in-flight HTTP requests.",
		}),
	}

	reg.MustRegister(
		r.shortLinks,
		r.collisions,
		r.barcodeLookups,
		r.barcodeErrors,
		r.orphans,
		r.httpRequests,
		r.httpDuration,
		r.httpInflight,
	)

	return r
}

func (r *Recorder) ShortLinkCreated()      { r.shortLinks.WithLabelValues("created").Inc() }
func (r *Recorder) ShortLinkDeduplicated() { r.shortLinks.WithLabelValues("deduplicated").Inc() }
func (r *Recorder) TokenCollision()        { r.collisions.Inc() }

func (r *Recorder) BarcodeCacheHit()  { r.barcodeLookups.WithLabelValues("hit").Inc() }
func (r *Recorder) BarcodeCacheMiss() { r.barcodeLookups.WithLabelValues("miss").Inc() }

func (r *Recorder) BarcodeFailure(kind shortener.Kind) {
	r.barcodeErrors.WithLabelValues(string(kind)).Inc()
}

func (r *Recorder) OrphansRemoved(n int) { r.orphans.Add(float64(n)) }

// RequestStarted marks a request in flight.
func (r *Recorder) RequestStarted() { r.httpInflight.Inc() }

// RequestFinished records a completed request.
func (r *Recorder) RequestFinished(method, route string, status int, elapsed time.Duration) {
	r.httpInflight.Dec()
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

var (
	_ shortener.Recorder = (*Recorder)(nil)
	_ barcode.Recorder   = (*Recorder)(nil)
)
