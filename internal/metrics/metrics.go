// Package metrics exposes Prometheus instrumentation for the ICAP codec service.
package metrics

import (
	"net/http"
	"strings"
	"time"

	apperrors "github.com/mowind/icap-go/internal/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "icap"

// OutcomeSuccess is the outcome label for operations that returned no error.
const OutcomeSuccess = "success"

// Registry is where the collectors are registered and gathered from.
type Registry interface {
	prometheus.Registerer
	prometheus.Gatherer
}

// Recorder records codec operations. A nil *Recorder is a valid no-op.
type Recorder struct {
	registry Registry

	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	batchSize  prometheus.Histogram
}

// New registers the codec collectors on r.
func New(r Registry) *Recorder {
	rec := &Recorder{
		registry: r,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "codec_operations_total",
			Help:      "Number of codec operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "codec_operation_duration_seconds",
			Help:      "Latency of codec operations.",
			Buckets:   prometheus.ExponentialBuckets(0.000005, 4, 8),
		}, []string{"operation"}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "jsonrpc_batch_size",
			Help:      "Number of calls per JSON-RPC batch request.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
		}),
	}
	r.MustRegister(rec.operations, rec.duration, rec.batchSize)
	return rec
}

// NewDefault creates a fresh registry with the codec collectors plus the Go
// runtime and process collectors.
func NewDefault() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return New(registry)
}

// ObserveOperation counts one operation and records its latency. Failures are
// labelled with the lower-cased application error type.
func (r *Recorder) ObserveOperation(operation string, start time.Time, err error) {
	if r == nil {
		return
	}
	r.operations.WithLabelValues(operation, Outcome(err)).Inc()
	r.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ObserveBatch records the number of calls in one JSON-RPC batch.
func (r *Recorder) ObserveBatch(size int) {
	if r == nil {
		return
	}
	r.batchSize.Observe(float64(size))
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry returns the underlying registry, or nil for a nil Recorder.
func (r *Recorder) Registry() Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Outcome maps an operation error to its metric label.
func Outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	return strings.ToLower(string(apperrors.ConvertError(err).Type))
}
