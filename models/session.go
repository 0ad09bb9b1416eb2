package models

import (
	"strings"
	"time"
)

// SessionStatus is the business status of a payment session as reported by
// the gateway. Parsing is case-insensitive; anything unrecognized maps to
// StatusUnknown and keeps the session polling.
type SessionStatus string

const (
	StatusWaiting SessionStatus = "waiting"
	StatusSuccess SessionStatus = "success"
	StatusFailure SessionStatus = "failure"
	StatusUnknown SessionStatus = "unknown"
)

func ParseSessionStatus(raw string) SessionStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "waiting":
		return StatusWaiting
	case "success":
		return StatusSuccess
	case "failure":
		return StatusFailure
	default:
		return StatusUnknown
	}
}

// Session is one payment attempt from creation to terminal outcome.
type Session struct {
	ID          string        `json:"id"`
	AttemptID   string        `json:"attempt_id"` // local correlation id, never sent to the gateway
	AmountCents int           `json:"amount_cents"`
	Currency    string        `json:"currency"`
	CreatedAt   time.Time     `json:"created_at"`
	ExpiresAt   time.Time     `json:"expires_at"`
	Status      SessionStatus `json:"status"`
}

type CreatePaymentRequest struct {
	AmountCents        int    `json:"amount_cents"`
	Currency           string `json:"currency"`
	PaymentRedirectURL string `json:"payment_redirect_url"`
}

// CreatePaymentResponse mirrors the gateway creation response. The QR payload
// field names have drifted across gateway revisions, so every known alias is
// kept and resolution order is handled by the payload resolver.
type CreatePaymentResponse struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	ExpiresAt       string `json:"expires_at"`
	ValidForMinutes int    `json:"valid_for_minutes"`

	QRCodeSVG      string `json:"qr_code_svg"`
	QRCodeSVGAlt   string `json:"qrcode_svg"`
	QRSVG          string `json:"qr_svg"`
	TwintQRCodeSVG string `json:"twint_qr_code_svg"`

	QRCodePNGBase64      string `json:"qr_code_png_base64"`
	QRCodePNGBase64Alt   string `json:"qrcode_png_base64"`
	TwintQRCodePNGBase64 string `json:"twint_qr_code_png_base64"`

	QR     string `json:"qr"`
	QRCode string `json:"qrcode"`
	QRData string `json:"qr_data"`

	QRCodeURL    string `json:"qr_code_url"`
	QRCodeURLAlt string `json:"qrcode_url"`
	PaymentQRURL string `json:"payment_qr_url"`
	URL          string `json:"url"`

	Error string `json:"error"`
}

type PaymentStatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

type ActuateResponse struct {
	Status      string `json:"status"`
	TotalTimeMs int    `json:"total_time_ms"`
	Error       string `json:"error"`
}
