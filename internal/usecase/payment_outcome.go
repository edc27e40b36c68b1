package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"khipu_gateway/internal/domain/entities"
)

var (
	ErrMissingAPIKey            = errors.New("server configuration error: missing payment provider API key")
	ErrMalformedProviderSuccess = errors.New("payment provider returned a success status with a malformed body")
)

type providerFieldError struct {
	Field   *string `json:"field"`
	Message *string `json:"message"`
}

// ClassifyUpstreamResponse maps the provider answer to the final outcome.
// A 2xx answer must carry valid JSON; anything else is a *PaymentFailure.
func ClassifyUpstreamResponse(raw entities.RawResponse) (entities.PaymentIntentResult, error) {
	text := string(raw.Body)

	if raw.StatusCode >= 200 && raw.StatusCode < 300 {
		if !json.Valid(raw.Body) {
			return entities.PaymentIntentResult{}, &entities.PaymentFailure{
				Category:   entities.FailureUnexpected,
				HTTPStatus: http.StatusInternalServerError,
				Message:    "unexpected internal error: " + ErrMalformedProviderSuccess.Error(),
				Err:        ErrMalformedProviderSuccess,
			}
		}
		return entities.PaymentIntentResult{Body: json.RawMessage(raw.Body)}, nil
	}

	failure := &entities.PaymentFailure{
		Category:   entities.FailureUpstream,
		HTTPStatus: raw.StatusCode,
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw.Body, &obj); err != nil || obj == nil {
		// Not JSON, or JSON that is not an object: relay as text.
		failure.Message = "payment provider error: " + text
		failure.Details = text
		return entities.PaymentIntentResult{}, failure
	}

	failure.Message = "payment provider error: " + providerErrorMessage(obj, text)
	failure.Body = json.RawMessage(raw.Body)
	return entities.PaymentIntentResult{}, failure
}

func providerErrorMessage(obj map[string]json.RawMessage, fallback string) string {
	var fieldErrors []providerFieldError
	if raw, ok := obj["errors"]; ok && json.Unmarshal(raw, &fieldErrors) == nil && len(fieldErrors) > 0 {
		first := fieldErrors[0]
		field := "unknown"
		if first.Field != nil {
			field = *first.Field
		}
		message := fallback
		if first.Message != nil {
			message = *first.Message
		}
		return fmt.Sprintf("Field '%s': %s", field, message)
	}
	var message string
	if raw, ok := obj["message"]; ok && json.Unmarshal(raw, &message) == nil && message != "" {
		return message
	}
	return fallback
}

// ClassifyTransportError maps a failure to obtain any provider answer.
func ClassifyTransportError(err error) *entities.PaymentFailure {
	var terr *entities.TransportError
	if !errors.As(err, &terr) {
		return &entities.PaymentFailure{
			Category:   entities.FailureUnexpected,
			HTTPStatus: http.StatusInternalServerError,
			Message:    "unexpected internal error: " + err.Error(),
			Err:        err,
		}
	}

	switch terr.Kind {
	case entities.TransportTimeout:
		return &entities.PaymentFailure{
			Category:   entities.FailureConnectionTimeout,
			HTTPStatus: http.StatusGatewayTimeout,
			Message:    "Timeout connecting to the payment provider API",
			Err:        err,
		}
	case entities.TransportConnectionFailed:
		return &entities.PaymentFailure{
			Category:   entities.FailureConnectionError,
			HTTPStatus: http.StatusServiceUnavailable,
			Message:    "Error connecting to the payment provider API",
			Details:    causeText(terr),
			Err:        err,
		}
	default:
		return &entities.PaymentFailure{
			Category:   entities.FailureUnexpected,
			HTTPStatus: http.StatusBadGateway,
			Message:    "Error communicating with the payment provider: " + causeText(terr),
			Err:        err,
		}
	}
}

func configFailure() *entities.PaymentFailure {
	return &entities.PaymentFailure{
		Category:   entities.FailureConfig,
		HTTPStatus: http.StatusInternalServerError,
		Message:    ErrMissingAPIKey.Error(),
		Err:        ErrMissingAPIKey,
	}
}

func causeText(terr *entities.TransportError) string {
	if terr.Err == nil {
		return string(terr.Kind)
	}
	return terr.Err.Error()
}
