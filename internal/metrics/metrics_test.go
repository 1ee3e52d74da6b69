package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mowind/icap-go/internal/icap"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Registers(t *testing.T) {
	registry := prometheus.NewPedanticRegistry()
	rec := New(registry)

	rec.ObserveOperation("icap_encode", time.Now(), nil)
	rec.ObserveBatch(3)

	mfs, err := registry.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 3)
}

func TestRecorder_ObserveOperation(t *testing.T) {
	rec := New(prometheus.NewPedanticRegistry())

	rec.ObserveOperation("icap_decode", time.Now(), nil)
	rec.ObserveOperation("icap_decode", time.Now(), nil)
	rec.ObserveOperation("icap_decode", time.Now(), icap.ErrChecksumMismatch)
	rec.ObserveOperation("icap_encode", time.Now(), icap.ErrNonEncodable)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.operations.WithLabelValues("icap_decode", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.operations.WithLabelValues("icap_decode", "checksum_mismatch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.operations.WithLabelValues("icap_encode", "non_encodable")))
	assert.Equal(t, 2, testutil.CollectAndCount(rec.duration))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, Outcome(nil))
	assert.Equal(t, "not_direct", Outcome(icap.ErrNotDirect))
	assert.Equal(t, "invalid_address", Outcome(icap.ErrInvalidAddress))
	assert.Equal(t, "internal_error", Outcome(errors.New("boom")))
}

func TestRecorder_Handler(t *testing.T) {
	rec := New(prometheus.NewPedanticRegistry())
	rec.ObserveOperation("icap_parse", time.Now(), nil)

	srv := httptest.NewServer(rec.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `icap_codec_operations_total{operation="icap_parse",outcome="success"} 1`)
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var rec *Recorder
	assert.NotPanics(t, func() {
		rec.ObserveOperation("icap_encode", time.Now(), nil)
		rec.ObserveBatch(1)
	})
	assert.Nil(t, rec.Registry())

	w := httptest.NewRecorder()
	rec.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewDefault(t *testing.T) {
	rec := NewDefault()
	mfs, err := rec.Registry().Gather()
	require.NoError(t, err)
	assert.Greater(t, len(mfs), 3)
}
