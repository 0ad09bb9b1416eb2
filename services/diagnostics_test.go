package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kiosk-terminal/models"
)

func TestDiagnosticsStartsPending(t *testing.T) {
	d := NewDiagnosticsAggregator("http://unused", DefaultTimings(), zap.NewNop())

	report := d.Report()
	assert.Equal(t, models.HealthPending, report.Gateway.Status)
	assert.Equal(t, models.HealthPending, report.Connectivity.Status)
	assert.Nil(t, report.Gateway.LastAt)
}

func TestDiagnosticsRecordGateway(t *testing.T) {
	d := NewDiagnosticsAggregator("http://unused", DefaultTimings(), zap.NewNop())

	d.RecordGateway(true, 42*time.Millisecond)
	report := d.Report()
	require.Equal(t, models.HealthOK, report.Gateway.Status)
	require.NotNil(t, report.Gateway.LatencyMs)
	assert.Equal(t, int64(42), *report.Gateway.LatencyMs)
	assert.NotNil(t, report.Gateway.LastAt)

	d.RecordGateway(false, 0)
	report = d.Report()
	assert.Equal(t, models.HealthBad, report.Gateway.Status)
	assert.Nil(t, report.Gateway.LatencyMs)
}

func TestDiagnosticsGatewayLatencyClampedNonNegative(t *testing.T) {
	d := NewDiagnosticsAggregator("http://unused", DefaultTimings(), zap.NewNop())

	d.RecordGateway(true, -5*time.Millisecond)

	report := d.Report()
	require.NotNil(t, report.Gateway.LatencyMs)
	assert.Equal(t, int64(0), *report.Gateway.LatencyMs)
}

func TestDiagnosticsResetGatewayDoesNotTouchConnectivity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d := NewDiagnosticsAggregator(srv.URL, DefaultTimings(), zap.NewNop())
	d.probeOnce()
	d.RecordGateway(true, 10*time.Millisecond)

	d.ResetGateway()

	report := d.Report()
	assert.Equal(t, models.HealthPending, report.Gateway.Status)
	assert.Equal(t, models.HealthOK, report.Connectivity.Status)
}

func TestDiagnosticsProbeMarksOKOn2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d := NewDiagnosticsAggregator(srv.URL, DefaultTimings(), zap.NewNop())
	d.probeOnce()

	report := d.Report()
	require.Equal(t, models.HealthOK, report.Connectivity.Status)
	require.NotNil(t, report.Connectivity.LatencyMs)
	assert.GreaterOrEqual(t, *report.Connectivity.LatencyMs, int64(0))
}

func TestDiagnosticsProbeMarksBadOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d := NewDiagnosticsAggregator(srv.URL, DefaultTimings(), zap.NewNop())
	d.probeOnce()

	assert.Equal(t, models.HealthBad, d.Report().Connectivity.Status)
}

func TestDiagnosticsProbeTimeoutMarksBad(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	timings := DefaultTimings()
	timings.ProbeTimeout = 50 * time.Millisecond

	d := NewDiagnosticsAggregator(srv.URL, timings, zap.NewNop())
	d.probeOnce()

	assert.Equal(t, models.HealthBad, d.Report().Connectivity.Status)
}

func TestDiagnosticsProbeLoopKeepsRunning(t *testing.T) {
	hits := make(chan struct{}, 16)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits <- struct{}{}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	timings := DefaultTimings()
	timings.ProbeInterval = 20 * time.Millisecond

	d := NewDiagnosticsAggregator(srv.URL, timings, zap.NewNop())
	d.StartProbe()
	defer d.StopProbe()

	for i := 0; i < 3; i++ {
		select {
		case <-hits:
		case <-time.After(time.Second):
			t.Fatal("probe loop stalled")
		}
	}
}
