package usecase

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"khipu_gateway/internal/domain/entities"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingRequiredFields = errors.New("missing required fields: subject, amount, currency")
	ErrInvalidFieldType      = errors.New("subject and currency must be strings")
	ErrInvalidCurrency       = errors.New("invalid currency")
	ErrInvalidAmount         = errors.New("amount must be a valid number")
	ErrNonPositiveAmount     = errors.New("amount must be greater than zero")
)

// NormalizePaymentRequest validates an inbound request and builds the payload
// sent to the provider. Every returned error is a validation *PaymentFailure.
func NormalizePaymentRequest(req entities.PaymentRequest, acceptedCurrency string) (entities.NormalizedPayload, error) {
	if isBlank(req.Subject) || isBlank(req.Amount) || isBlank(req.Currency) {
		return entities.NormalizedPayload{}, validationFailure(ErrMissingRequiredFields, ErrMissingRequiredFields.Error())
	}

	subject, ok := req.Subject.(string)
	if !ok {
		return entities.NormalizedPayload{}, validationFailure(ErrInvalidFieldType, ErrInvalidFieldType.Error())
	}
	currency, ok := req.Currency.(string)
	if !ok {
		return entities.NormalizedPayload{}, validationFailure(ErrInvalidFieldType, ErrInvalidFieldType.Error())
	}
	if currency != acceptedCurrency {
		return entities.NormalizedPayload{}, validationFailure(ErrInvalidCurrency,
			fmt.Sprintf("%s for the configured API key, use %s", ErrInvalidCurrency, acceptedCurrency))
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return entities.NormalizedPayload{}, validationFailure(ErrInvalidAmount, ErrInvalidAmount.Error())
	}
	if !amount.IsPositive() {
		return entities.NormalizedPayload{}, validationFailure(ErrNonPositiveAmount, ErrNonPositiveAmount.Error())
	}

	notifyAPIVersion := req.NotifyAPIVersion
	if notifyAPIVersion == nil {
		notifyAPIVersion = entities.DefaultNotifyAPIVersion
	}

	return entities.NormalizedPayload{
		Subject:          subject,
		Amount:           json.Number(amount.String()),
		Currency:         currency,
		TransactionID:    req.TransactionID,
		Custom:           req.Custom,
		Body:             req.Body,
		PayerEmail:       req.PayerEmail,
		ReturnURL:        req.ReturnURL,
		CancelURL:        req.CancelURL,
		NotifyURL:        req.NotifyURL,
		PictureURL:       req.PictureURL,
		NotifyAPIVersion: notifyAPIVersion,
		ExpiresDate:      req.ExpiresDate,
	}, nil
}

// DecodePaymentRequest parses a JSON object body keeping numbers exact.
func DecodePaymentRequest(raw []byte) (entities.PaymentRequest, error) {
	var req entities.PaymentRequest
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return entities.PaymentRequest{}, err
	}
	if dec.More() {
		return entities.PaymentRequest{}, errors.New("unexpected data after JSON object")
	}
	return req, nil
}

func isBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	}
	return false
}

func parseAmount(v any) (decimal.Decimal, error) {
	var s string
	switch val := v.(type) {
	case json.Number:
		s = val.String()
	case string:
		s = strings.TrimSpace(val)
	case float64:
		return decimal.NewFromFloat(val), nil
	case int:
		return decimal.NewFromInt(int64(val)), nil
	case int64:
		return decimal.NewFromInt(val), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("unsupported amount type %T", v)
	}
	return decimal.NewFromString(s)
}

func validationFailure(err error, message string) *entities.PaymentFailure {
	return &entities.PaymentFailure{
		Category:   entities.FailureValidation,
		HTTPStatus: http.StatusBadRequest,
		Message:    message,
		Err:        err,
	}
}
