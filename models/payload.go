package models

// PayloadKind tags the resolved graphic payload variant.
type PayloadKind string

const (
	PayloadInlineMarkup PayloadKind = "inline_markup"
	PayloadEncodedImage PayloadKind = "encoded_image"
	PayloadExternalURL  PayloadKind = "external_url"
	PayloadUnresolved   PayloadKind = "unresolved"
)

// GraphicPayload is the renderable result of resolving the gateway's
// loosely-typed QR fields. Exactly one of Markup, Data+MIME or URL is set
// depending on Kind; Unresolved carries a placeholder in Markup so the
// front-end never renders a silent blank.
type GraphicPayload struct {
	Kind   PayloadKind `json:"kind"`
	Markup string      `json:"markup,omitempty"`
	Data   []byte      `json:"data,omitempty"`
	MIME   string      `json:"mime,omitempty"`
	URL    string      `json:"url,omitempty"`
}
