// Package metrics exposes the board server's Prometheus metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the server's collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	VersionsTotal   *prometheus.CounterVec
	UploadsTotal    *prometheus.CounterVec
	UploadBytes     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rateboard_http_requests_total",
				Help: "HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rateboard_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		VersionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rateboard_record_versions_total",
				Help: "Records written, by family",
			},
			[]string{"family"},
		),
		UploadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rateboard_uploads_total",
				Help: "Uploaded files stored, by family",
			},
			[]string{"family"},
		),
		UploadBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rateboard_upload_bytes_total",
				Help: "Bytes of uploaded files stored, by family",
			},
			[]string{"family"},
		),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.VersionsTotal,
		m.UploadsTotal,
		m.UploadBytes,
	)

	return m
}

// RecordRequest records a completed HTTP request. route is the matched mux
// pattern, not the raw path, to keep label cardinality bounded.
func (m *Metrics) RecordRequest(method, route string, status int, durationSeconds float64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(durationSeconds)
}

func (m *Metrics) RecordVersion(family string) {
	if m == nil {
		return
	}
	m.VersionsTotal.WithLabelValues(family).Inc()
}

func (m *Metrics) RecordUpload(family string, size int64) {
	if m == nil {
		return
	}
	m.UploadsTotal.WithLabelValues(family).Inc()
	m.UploadBytes.WithLabelValues(family).Add(float64(size))
}
