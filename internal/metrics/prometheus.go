// Package metrics provides Prometheus metrics for the viewer
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rpggio/ionview/internal/domain/viewer"
)

var (
	// Dataset metrics
	DatasetLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ionview_dataset_loads_total",
			Help: "Total number of dataset loads by origin",
		},
		[]string{"origin"},
	)

	DatasetRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ionview_dataset_records",
			Help: "Number of records in the current dataset",
		},
	)

	DatasetFallback = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ionview_dataset_fallback",
			Help: "1 while the embedded dataset is in use",
		},
	)

	// Viewer event metrics
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ionview_events_total",
			Help: "Total number of viewer events handled",
		},
		[]string{"type"},
	)

	// Artifact metrics
	DownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ionview_artifact_downloads_total",
			Help: "Total number of artifact download attempts",
		},
		[]string{"status"},
	)

	// HTTP metrics
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ionview_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ionview_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Observer records viewer activity. It implements viewer.Observer.
type Observer struct{}

// NewObserver creates a new viewer observer
func NewObserver() *Observer {
	return &Observer{}
}

// LoadCompleted records a dataset load
func (o *Observer) LoadCompleted(res viewer.LoadResult) {
	DatasetLoadsTotal.WithLabelValues(string(res.Origin)).Inc()
	DatasetRecords.Set(float64(res.Records))
	if res.Fallback {
		DatasetFallback.Set(1)
	} else {
		DatasetFallback.Set(0)
	}
}

// EventHandled records a handled viewer event
func (o *Observer) EventHandled(kind string) {
	EventsTotal.WithLabelValues(kind).Inc()
}

// RecordDownload records an artifact download attempt
func RecordDownload(status string) {
	DownloadsTotal.WithLabelValues(status).Inc()
}

// RecordRequest records an HTTP request
func RecordRequest(method, route string, status int, duration time.Duration) {
	RequestsTotal.WithLabelValues(method, route, http.StatusText(status)).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler serves the metrics endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
