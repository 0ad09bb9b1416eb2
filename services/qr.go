package services

import (
	"encoding/base64"
	"regexp"
	"strings"

	"kiosk-terminal/models"
)

// NoPayloadText is shown when no QR field in the response could be resolved.
const NoPayloadText = "No QR code found in the response."

var base64Like = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)

// ResolveGraphicPayload turns the gateway's loosely-typed creation response
// into a renderable payload. The gateway schema has renamed its QR fields
// over several revisions, so resolution walks a fixed alias order with first
// match winning: inline SVG, base64 PNG, generic payload (sniffed), URL.
// Keep the order: the cheaper, more specific forms must win over the
// general ones.
func ResolveGraphicPayload(resp *models.CreatePaymentResponse) models.GraphicPayload {
	if resp == nil {
		return unresolved()
	}

	if svg := firstNonEmpty(resp.QRCodeSVG, resp.QRCodeSVGAlt, resp.QRSVG, resp.TwintQRCodeSVG); svg != "" {
		return models.GraphicPayload{Kind: models.PayloadInlineMarkup, Markup: svg}
	}

	if png := firstNonEmpty(resp.QRCodePNGBase64, resp.QRCodePNGBase64Alt, resp.TwintQRCodePNGBase64); png != "" {
		if data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(png)); err == nil {
			return models.GraphicPayload{Kind: models.PayloadEncodedImage, Data: data, MIME: "image/png"}
		}
	}

	if generic := firstNonEmpty(resp.QR, resp.QRCode, resp.QRData); generic != "" {
		trimmed := strings.TrimSpace(generic)

		if strings.HasPrefix(trimmed, "data:") {
			return models.GraphicPayload{Kind: models.PayloadExternalURL, URL: trimmed}
		}
		if strings.HasPrefix(trimmed, "<svg") {
			return models.GraphicPayload{Kind: models.PayloadInlineMarkup, Markup: trimmed}
		}
		if base64Like.MatchString(trimmed) {
			if data, err := base64.StdEncoding.DecodeString(trimmed); err == nil {
				return models.GraphicPayload{Kind: models.PayloadEncodedImage, Data: data, MIME: "image/png"}
			}
		}
	}

	if url := firstNonEmpty(resp.QRCodeURL, resp.QRCodeURLAlt, resp.PaymentQRURL, resp.URL); url != "" {
		return models.GraphicPayload{Kind: models.PayloadExternalURL, URL: url}
	}

	return unresolved()
}

func unresolved() models.GraphicPayload {
	return models.GraphicPayload{Kind: models.PayloadUnresolved, Markup: NoPayloadText}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
