package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecord(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordRequest("GET", "GET /api/rates/current", 200, 0.01)
	m.RecordRequest("GET", "GET /api/rates/current", 200, 0.02)
	m.RecordVersion("rates")
	m.RecordUpload("promo", 2048)
	m.RecordUpload("promo", 1024)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "GET /api/rates/current", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VersionsTotal.WithLabelValues("rates")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.UploadsTotal.WithLabelValues("promo")))
	assert.Equal(t, 3072.0, testutil.ToFloat64(m.UploadBytes.WithLabelValues("promo")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("GET", "/", 200, 0)
		m.RecordVersion("rates")
		m.RecordUpload("media", 1)
	})
}
