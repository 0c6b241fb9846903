package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xy-planning-network/checkpoint/http/check"
	"github.com/xy-planning-network/checkpoint/http/endpoint"
)

const namespace = "checkpoint"

var (
	_ check.Observer    = (*Recorder)(nil)
	_ endpoint.Observer = (*Recorder)(nil)
)

// A Recorder counts and times the outcomes of checks and requests.
type Recorder struct {
	checks        *prometheus.CounterVec
	checkDuration *prometheus.HistogramVec
	requests      *prometheus.CounterVec
	reqDuration   *prometheus.HistogramVec
	reg           *prometheus.Registry
}

// NewRecorder constructs a *Recorder registering its metrics
// on a registry of its own.
func NewRecorder() *Recorder {
	rec := &Recorder{
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Checks applied, by check and outcome.",
		}, []string{"check", "outcome"}),
		checkDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "check_duration_seconds",
			Help:      "Time spent applying a check.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"check"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Requests dispatched to an endpoint, by endpoint and outcome.",
		}, []string{"method", "path", "outcome"}),
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time spent dispatching a request to an endpoint.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		reg: prometheus.NewRegistry(),
	}

	rec.reg.MustRegister(rec.checks, rec.checkDuration, rec.requests, rec.reqDuration)
	return rec
}

// ObserveCheck implements check.Observer.
func (rec *Recorder) ObserveCheck(id string, outcome check.Outcome, elapsed time.Duration) {
	rec.checks.WithLabelValues(id, string(outcome)).Inc()
	rec.checkDuration.WithLabelValues(id).Observe(elapsed.Seconds())
}

// ObserveRequest implements endpoint.Observer.
func (rec *Recorder) ObserveRequest(e endpoint.Endpoint, outcome endpoint.Outcome, elapsed time.Duration) {
	rec.requests.WithLabelValues(e.Method, e.Path, string(outcome)).Inc()
	rec.reqDuration.WithLabelValues(e.Method, e.Path).Observe(elapsed.Seconds())
}

// CheckCount is the number of times the check concluded with outcome.
func (rec *Recorder) CheckCount(id string, outcome check.Outcome) prometheus.Counter {
	return rec.checks.WithLabelValues(id, string(outcome))
}

// Registry exposes the registry the Recorder's metrics are registered on.
func (rec *Recorder) Registry() *prometheus.Registry { return rec.reg }

// Handler serves the Recorder's metrics in the Prometheus exposition format.
func (rec *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(rec.reg, promhttp.HandlerOpts{Registry: rec.reg})
}
