package services

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"kiosk-terminal/models"
	"kiosk-terminal/scheduler"
)

// DiagnosticsAggregator tracks two independent health signals: the payment
// gateway (fed exclusively by status-poll outcomes) and general connectivity
// (its own periodic probe against a third-party endpoint). The tracks never
// influence each other.
type DiagnosticsAggregator struct {
	probeURL   string
	httpClient *http.Client
	timings    Timings
	logger     *zap.Logger
	now        func() time.Time

	probe scheduler.Interval

	mu           sync.Mutex
	gateway      models.HealthSample
	connectivity models.HealthSample
}

func NewDiagnosticsAggregator(probeURL string, timings Timings, logger *zap.Logger) *DiagnosticsAggregator {
	return &DiagnosticsAggregator{
		probeURL:     probeURL,
		httpClient:   &http.Client{},
		timings:      timings,
		logger:       logger,
		now:          time.Now,
		gateway:      models.HealthSample{Status: models.HealthPending},
		connectivity: models.HealthSample{Status: models.HealthPending},
	}
}

// ResetGateway marks the gateway track pending. Called whenever a new
// session starts, before its first poll.
func (d *DiagnosticsAggregator) ResetGateway() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gateway = models.HealthSample{Status: models.HealthPending}
}

// RecordGateway publishes one status-poll outcome. ok means the attempt
// reached the backend, regardless of the session's business status; latency
// is ignored when ok is false.
func (d *DiagnosticsAggregator) RecordGateway(ok bool, latency time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gateway = d.newSample(ok, latency)
}

// Report returns a copy of both tracks for presentation.
func (d *DiagnosticsAggregator) Report() models.DiagnosticsReport {
	d.mu.Lock()
	defer d.mu.Unlock()
	return models.DiagnosticsReport{Gateway: d.gateway, Connectivity: d.connectivity}
}

// StartProbe probes immediately and then on the configured interval.
func (d *DiagnosticsAggregator) StartProbe() {
	d.probe.Start(d.timings.ProbeInterval, d.probeOnce)
}

func (d *DiagnosticsAggregator) StopProbe() {
	d.probe.Stop()
}

func (d *DiagnosticsAggregator) probeOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), d.timings.ProbeTimeout)
	defer cancel()

	started := d.now()
	ok := false
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.probeURL, nil)
	if err == nil {
		resp, doErr := d.httpClient.Do(req)
		if doErr == nil {
			resp.Body.Close()
			ok = resp.StatusCode >= 200 && resp.StatusCode < 300
		} else if d.logger != nil {
			d.logger.Debug("connectivity probe failed", zap.Error(doErr))
		}
	}
	latency := d.now().Sub(started)

	d.mu.Lock()
	d.connectivity = d.newSample(ok, latency)
	d.mu.Unlock()
}

func (d *DiagnosticsAggregator) newSample(ok bool, latency time.Duration) models.HealthSample {
	at := d.now()
	sample := models.HealthSample{LastAt: &at}
	if ok {
		sample.Status = models.HealthOK
		ms := latency.Round(time.Millisecond).Milliseconds()
		if ms < 0 {
			ms = 0
		}
		sample.LatencyMs = &ms
	} else {
		sample.Status = models.HealthBad
	}
	return sample
}
