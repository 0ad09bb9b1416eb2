package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"kiosk-terminal/metrics"
	"kiosk-terminal/models"
)

// StatusError is a non-2xx gateway reply. Message carries the backend's own
// error text when the body contained one.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway returned %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("gateway returned %d", e.Code)
}

// Client talks to the payment/actuator backend. Bodies that fail to decode
// are treated as empty structs; only transport-level failure (network error,
// non-2xx) is an error.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

func (c *Client) CreatePayment(ctx context.Context, req models.CreatePaymentRequest) (*models.CreatePaymentResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment request: %w", err)
	}

	var out models.CreatePaymentResponse
	if err := c.do(ctx, http.MethodPost, "/api/payment", body, &out, func() string { return out.Error }); err != nil {
		metrics.TransportFailures.WithLabelValues("create_payment").Inc()
		return nil, err
	}
	return &out, nil
}

// PaymentStatus polls one session and reports the measured round-trip
// latency. The latency is valid for any attempt that reached the backend,
// including non-2xx replies.
func (c *Client) PaymentStatus(ctx context.Context, id string) (*models.PaymentStatusResponse, time.Duration, error) {
	started := time.Now()
	var out models.PaymentStatusResponse
	err := c.do(ctx, http.MethodGet, "/api/payment/"+id, nil, &out, func() string { return out.Error })
	latency := time.Since(started)
	metrics.PollLatency.Observe(latency.Seconds())
	if err != nil {
		metrics.TransportFailures.WithLabelValues("payment_status").Inc()
		return nil, latency, err
	}
	return &out, latency, nil
}

func (c *Client) Actuate(ctx context.Context) (*models.ActuateResponse, error) {
	var out models.ActuateResponse
	if err := c.do(ctx, http.MethodPost, "/api/actuate", nil, &out, func() string { return out.Error }); err != nil {
		metrics.TransportFailures.WithLabelValues("actuate").Inc()
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeviceStatus(ctx context.Context) (*models.DeviceStatusResponse, error) {
	var out models.DeviceStatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/device/status", nil, &out, func() string { return out.Error }); err != nil {
		metrics.TransportFailures.WithLabelValues("device_status").Inc()
		return nil, err
	}
	return &out, nil
}

// do performs one call and decodes the reply into out. Undecodable bodies
// leave out zeroed, matching the "treat as empty object" contract.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out interface{}, errMsg func() string) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	// Decode best-effort; a garbled body is not a hard failure of the call.
	if decodeErr := json.Unmarshal(raw, out); decodeErr != nil && c.logger != nil {
		c.logger.Debug("undecodable gateway body",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Message: errMsg()}
	}
	return nil
}
