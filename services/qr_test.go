package services

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosk-terminal/models"
)

func TestResolveGraphicPayloadInlineMarkupWinsOverURL(t *testing.T) {
	resp := &models.CreatePaymentResponse{
		QRCodeSVG: "<svg>code</svg>",
		QRCodeURL: "https://cdn.example.com/qr.png",
	}

	payload := ResolveGraphicPayload(resp)

	assert.Equal(t, models.PayloadInlineMarkup, payload.Kind)
	assert.Equal(t, "<svg>code</svg>", payload.Markup)
}

func TestResolveGraphicPayloadSVGAliases(t *testing.T) {
	cases := []models.CreatePaymentResponse{
		{QRCodeSVG: "<svg/>"},
		{QRCodeSVGAlt: "<svg/>"},
		{QRSVG: "<svg/>"},
		{TwintQRCodeSVG: "<svg/>"},
	}
	for _, resp := range cases {
		payload := ResolveGraphicPayload(&resp)
		assert.Equal(t, models.PayloadInlineMarkup, payload.Kind)
	}
}

func TestResolveGraphicPayloadPNGBase64(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4e, 0x47}
	resp := &models.CreatePaymentResponse{
		QRCodePNGBase64: base64.StdEncoding.EncodeToString(raw),
	}

	payload := ResolveGraphicPayload(resp)

	require.Equal(t, models.PayloadEncodedImage, payload.Kind)
	assert.Equal(t, raw, payload.Data)
	assert.Equal(t, "image/png", payload.MIME)
}

func TestResolveGraphicPayloadGenericDataURI(t *testing.T) {
	resp := &models.CreatePaymentResponse{QRData: " data:image/png;base64,AAAA "}

	payload := ResolveGraphicPayload(resp)

	require.Equal(t, models.PayloadExternalURL, payload.Kind)
	assert.Equal(t, "data:image/png;base64,AAAA", payload.URL)
}

func TestResolveGraphicPayloadGenericInlineSVG(t *testing.T) {
	resp := &models.CreatePaymentResponse{QR: "<svg viewBox=\"0 0 1 1\"></svg>"}

	payload := ResolveGraphicPayload(resp)

	assert.Equal(t, models.PayloadInlineMarkup, payload.Kind)
}

func TestResolveGraphicPayloadBareBase64TreatedAsPNG(t *testing.T) {
	raw := []byte("qr-bytes")
	resp := &models.CreatePaymentResponse{QRCode: base64.StdEncoding.EncodeToString(raw)}

	payload := ResolveGraphicPayload(resp)

	require.Equal(t, models.PayloadEncodedImage, payload.Kind)
	assert.Equal(t, raw, payload.Data)
}

func TestResolveGraphicPayloadGenericNonBase64FallsThroughToURL(t *testing.T) {
	resp := &models.CreatePaymentResponse{
		QRData: "not base64!!",
		URL:    "https://cdn.example.com/qr.png",
	}

	payload := ResolveGraphicPayload(resp)

	require.Equal(t, models.PayloadExternalURL, payload.Kind)
	assert.Equal(t, "https://cdn.example.com/qr.png", payload.URL)
}

func TestResolveGraphicPayloadNothingMatches(t *testing.T) {
	payload := ResolveGraphicPayload(&models.CreatePaymentResponse{ID: "p1"})

	assert.Equal(t, models.PayloadUnresolved, payload.Kind)
	assert.Equal(t, NoPayloadText, payload.Markup)

	assert.Equal(t, models.PayloadUnresolved, ResolveGraphicPayload(nil).Kind)
}
