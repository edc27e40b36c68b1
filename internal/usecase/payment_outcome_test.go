package usecase

import (
	"errors"
	"net"
	"net/http"
	"testing"

	"khipu_gateway/internal/domain/entities"

	"github.com/stretchr/testify/require"
)

func TestClassifyUpstreamResponse(t *testing.T) {
	t.Run("success passes body through", func(t *testing.T) {
		res, err := ClassifyUpstreamResponse(entities.RawResponse{StatusCode: http.StatusCreated, Body: []byte(`{"payment_id":"abc"}`)})
		require.NoError(t, err)
		require.JSONEq(t, `{"payment_id":"abc"}`, string(res.Body))
	})

	t.Run("success with malformed body is unexpected", func(t *testing.T) {
		_, err := ClassifyUpstreamResponse(entities.RawResponse{StatusCode: http.StatusOK, Body: []byte(`<html>`)})
		var failure *entities.PaymentFailure
		require.ErrorAs(t, err, &failure)
		require.Equal(t, entities.FailureUnexpected, failure.Category)
		require.Equal(t, http.StatusInternalServerError, failure.HTTPStatus)
		require.ErrorIs(t, err, ErrMalformedProviderSuccess)
	})

	t.Run("field error list", func(t *testing.T) {
		body := `{"status":400,"message":"Invalid request","errors":[{"field":"amount","message":"too low"}]}`
		_, err := ClassifyUpstreamResponse(entities.RawResponse{StatusCode: http.StatusBadRequest, Body: []byte(body)})

		var failure *entities.PaymentFailure
		require.ErrorAs(t, err, &failure)
		require.Equal(t, entities.FailureUpstream, failure.Category)
		require.Equal(t, http.StatusBadRequest, failure.HTTPStatus)
		require.Equal(t, "payment provider error: Field 'amount': too low", failure.Message)
		require.JSONEq(t, body, string(failure.Body))
		require.Empty(t, failure.Details)
	})

	t.Run("field error without field name", func(t *testing.T) {
		_, err := ClassifyUpstreamResponse(entities.RawResponse{StatusCode: http.StatusBadRequest, Body: []byte(`{"errors":[{"message":"bad"}]}`)})
		var failure *entities.PaymentFailure
		require.ErrorAs(t, err, &failure)
		require.Equal(t, "payment provider error: Field 'unknown': bad", failure.Message)
	})

	t.Run("message only", func(t *testing.T) {
		_, err := ClassifyUpstreamResponse(entities.RawResponse{StatusCode: http.StatusUnauthorized, Body: []byte(`{"message":"Invalid API key"}`)})
		var failure *entities.PaymentFailure
		require.ErrorAs(t, err, &failure)
		require.Equal(t, http.StatusUnauthorized, failure.HTTPStatus)
		require.Equal(t, "payment provider error: Invalid API key", failure.Message)
	})

	t.Run("empty errors list falls back to message", func(t *testing.T) {
		_, err := ClassifyUpstreamResponse(entities.RawResponse{StatusCode: http.StatusBadRequest, Body: []byte(`{"errors":[],"message":"nope"}`)})
		var failure *entities.PaymentFailure
		require.ErrorAs(t, err, &failure)
		require.Equal(t, "payment provider error: nope", failure.Message)
	})

	t.Run("plain text body", func(t *testing.T) {
		_, err := ClassifyUpstreamResponse(entities.RawResponse{StatusCode: http.StatusBadGateway, Body: []byte("Bad Gateway")})
		var failure *entities.PaymentFailure
		require.ErrorAs(t, err, &failure)
		require.Equal(t, http.StatusBadGateway, failure.HTTPStatus)
		require.Equal(t, "payment provider error: Bad Gateway", failure.Message)
		require.Equal(t, "Bad Gateway", failure.Details)
		require.Nil(t, failure.Body)
	})

	t.Run("json array is relayed as text", func(t *testing.T) {
		_, err := ClassifyUpstreamResponse(entities.RawResponse{StatusCode: http.StatusConflict, Body: []byte(`["x"]`)})
		var failure *entities.PaymentFailure
		require.ErrorAs(t, err, &failure)
		require.Equal(t, `["x"]`, failure.Details)
		require.Nil(t, failure.Body)
	})
}

func TestClassifyTransportError(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		category entities.FailureCategory
		status   int
		message  string
	}{
		{
			name:     "timeout",
			err:      &entities.TransportError{Kind: entities.TransportTimeout, Err: errors.New("deadline")},
			category: entities.FailureConnectionTimeout,
			status:   http.StatusGatewayTimeout,
			message:  "Timeout connecting to the payment provider API",
		},
		{
			name:     "connection failed",
			err:      &entities.TransportError{Kind: entities.TransportConnectionFailed, Err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}},
			category: entities.FailureConnectionError,
			status:   http.StatusServiceUnavailable,
			message:  "Error connecting to the payment provider API",
		},
		{
			name:     "other transport failure",
			err:      &entities.TransportError{Kind: entities.TransportUnexpected, Err: errors.New("tls: bad certificate")},
			category: entities.FailureUnexpected,
			status:   http.StatusBadGateway,
			message:  "Error communicating with the payment provider: tls: bad certificate",
		},
		{
			name:     "not a transport error",
			err:      errors.New("boom"),
			category: entities.FailureUnexpected,
			status:   http.StatusInternalServerError,
			message:  "unexpected internal error: boom",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			failure := ClassifyTransportError(tc.err)
			require.Equal(t, tc.category, failure.Category)
			require.Equal(t, tc.status, failure.HTTPStatus)
			require.Equal(t, tc.message, failure.Message)
			require.ErrorIs(t, failure, tc.err)
		})
	}

	t.Run("connection failure carries cause text", func(t *testing.T) {
		failure := ClassifyTransportError(&entities.TransportError{Kind: entities.TransportConnectionFailed, Err: errors.New("connection reset by peer")})
		require.Equal(t, "connection reset by peer", failure.Details)
	})
}
