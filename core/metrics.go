package core

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "solar_push_"

// Metrics collects delivery statistics of a run. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	samples     *prometheus.CounterVec
	batches     *prometheus.CounterVec
	latency     prometheus.Histogram
	lastRun     prometheus.Gauge
	lastSuccess prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "samples_uploaded_total",
			Help: "Samples marked as uploaded after delivery.",
		}, []string{"system_id"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metricPrefix + "batches_total",
			Help: "Batches sent to the remote service by HTTP status code, error if undelivered.",
		}, []string{"system_id", "code"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    metricPrefix + "upload_duration_seconds",
			Help:    "Duration of a single batch upload.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "last_run_timestamp_seconds",
			Help: "Unix time the last run finished.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "last_run_success",
			Help: "1 if the last run drained every tracker, 0 otherwise.",
		}),
	}

	m.registry.MustRegister(m.samples, m.batches, m.latency, m.lastRun, m.lastSuccess)

	return m
}

// ObserveUpload counts a batch by status code, a zero status means the batch
// never got an answer and is counted as "error".
func (m *Metrics) ObserveUpload(systemID string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.batches.WithLabelValues(systemID, code).Inc()
	m.latency.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveCommit(systemID string, count int) {
	if m == nil {
		return
	}
	m.samples.WithLabelValues(systemID).Add(float64(count))
}

func (m *Metrics) ObserveRun(at time.Time, err error) {
	if m == nil {
		return
	}
	m.lastRun.Set(float64(at.Unix()))
	if err == nil {
		m.lastSuccess.Set(1)
	} else {
		m.lastSuccess.Set(0)
	}
}

// WriteTextfile dumps the metrics in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(filename string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(filename, m.registry)
}
