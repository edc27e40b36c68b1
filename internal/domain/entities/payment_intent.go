package entities

import (
	"encoding/json"
	"net/http"
	"time"
)

const (
	DefaultKhipuBaseURL     = "https://payment-api.khipu.com"
	DefaultNotifyAPIVersion = "1.3"
	DefaultAcceptedCurrency = "ARS"
	DefaultUpstreamTimeout  = 30 * time.Second
	KhipuPaymentsPath       = "/v3/payments"
	KhipuAPIKeyHeader       = "x-api-key"
)

// PaymentRequest is the untrusted body received from the client.
//
// Values are kept as decoded JSON (numbers as json.Number) so that the
// normalizer can tell "absent", "null" and "wrong type" apart.

type PaymentRequest struct {
	Subject          any `json:"subject"`
	Amount           any `json:"amount"`
	Currency         any `json:"currency"`
	TransactionID    any `json:"transaction_id"`
	Custom           any `json:"custom"`
	Body             any `json:"body"`
	PayerEmail       any `json:"payer_email"`
	ReturnURL        any `json:"return_url"`
	CancelURL        any `json:"cancel_url"`
	NotifyURL        any `json:"notify_url"`
	PictureURL       any `json:"picture_url"`
	NotifyAPIVersion any `json:"notify_api_version"`
	ExpiresDate      any `json:"expires_date"`
}

// NormalizedPayload is the body sent to the provider.
//
// Every optional field is omitted from the wire when nil: the provider treats
// an omitted field differently from an explicit null.

type NormalizedPayload struct {
	Subject          string      `json:"subject"`
	Amount           json.Number `json:"amount"`
	Currency         string      `json:"currency"`
	TransactionID    any         `json:"transaction_id,omitempty"`
	Custom           any         `json:"custom,omitempty"`
	Body             any         `json:"body,omitempty"`
	PayerEmail       any         `json:"payer_email,omitempty"`
	ReturnURL        any         `json:"return_url,omitempty"`
	CancelURL        any         `json:"cancel_url,omitempty"`
	NotifyURL        any         `json:"notify_url,omitempty"`
	PictureURL       any         `json:"picture_url,omitempty"`
	NotifyAPIVersion any         `json:"notify_api_version,omitempty"`
	ExpiresDate      any         `json:"expires_date,omitempty"`
}

// UpstreamConfig is the process-wide provider configuration. It is built once
// at startup and never mutated afterwards.
type UpstreamConfig struct {
	APIKey           string
	BaseURL          string
	Timeout          time.Duration
	AcceptedCurrency string
}

// RawResponse is what the provider answered, before classification.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// PaymentIntentResult is the successful outcome: the provider body, verbatim.
type PaymentIntentResult struct {
	Body json.RawMessage
}
