package entities

import (
	"encoding/json"
	"fmt"
)

// FailureCategory groups payment intent failures by who is at fault.
type FailureCategory string

const (
	FailureConfig            FailureCategory = "config"
	FailureValidation        FailureCategory = "validation"
	FailureUpstream          FailureCategory = "upstream"
	FailureConnectionTimeout FailureCategory = "connection_timeout"
	FailureConnectionError   FailureCategory = "connection_error"
	FailureUnexpected        FailureCategory = "unexpected"
)

// PaymentFailure is the failed outcome of a payment intent.
//
// Body holds the upstream JSON object when the provider answered with one; the
// HTTP adapter relays it verbatim. Details holds free text (raw upstream body or
// transport error text) rendered next to Message otherwise.
type PaymentFailure struct {
	Category   FailureCategory
	HTTPStatus int
	Message    string
	Details    string
	Body       json.RawMessage
	Err        error
}

func (f *PaymentFailure) Error() string {
	if f == nil {
		return ""
	}
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Category, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Category, f.Message)
}

func (f *PaymentFailure) Unwrap() error {
	if f == nil {
		return nil
	}
	return f.Err
}

// TransportErrorKind distinguishes network-level failures reaching the provider.
type TransportErrorKind string

const (
	TransportTimeout          TransportErrorKind = "timeout"
	TransportConnectionFailed TransportErrorKind = "connection_failed"
	TransportUnexpected       TransportErrorKind = "unexpected"
)

// TransportError is returned by gateways when no HTTP response was obtained.
type TransportError struct {
	Kind TransportErrorKind
	Err  error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
