package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"khipu_gateway/internal/domain/entities"
	"khipu_gateway/internal/infrastructure/logging"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MockGateway answers like the provider without leaving the process. It is
// enabled with PAYMENT_GATEWAY_MOCK for local development.
type MockGateway struct {
	logger zerolog.Logger
}

func NewMockGateway(logger zerolog.Logger) *MockGateway {
	logger = logging.Component(logger, "payment", "gateway")
	logger.Info().Msg("mock mode enabled")
	return &MockGateway{logger: logger}
}

func (g *MockGateway) CreatePayment(_ context.Context, payload entities.NormalizedPayload) (entities.RawResponse, error) {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	g.logger.Info().Str("payment_id", id).Str("amount", payload.Amount.String()).Msg("mock create success")

	body, err := json.Marshal(map[string]any{
		"payment_id":              id,
		"payment_url":             "https://khipu.com/payment/info/" + id,
		"simplified_transfer_url": "https://app.khipu.com/payment/simplified/" + id,
		"transfer_url":            "https://khipu.com/payment/manual/" + id,
		"app_url":                 "khipu:///pos/" + id,
		"ready_for_terminal":      false,
	})
	if err != nil {
		return entities.RawResponse{}, err
	}

	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return entities.RawResponse{StatusCode: http.StatusCreated, Header: h, Body: body}, nil
}
