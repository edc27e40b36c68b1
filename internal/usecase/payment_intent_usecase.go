package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"khipu_gateway/internal/domain/entities"
	"khipu_gateway/internal/infrastructure/logging"
	"khipu_gateway/internal/infrastructure/observability"
	"khipu_gateway/internal/usecase/interfaces"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var ErrPaymentGatewayNotConfigured = errors.New("payment gateway not configured")

//go:generate mockgen -destination=../adapter/http/handlers/mocks/mock_payment_intent_usecase.go -package=mocks khipu_gateway/internal/usecase IPaymentIntentUseCase

// IPaymentIntentUseCase encapsulates the "create payment intent" behavior:
// validate and normalize the request, forward it once to the provider and
// classify the answer.
type IPaymentIntentUseCase interface {
	Create(ctx context.Context, req entities.PaymentRequest) (entities.PaymentIntentResult, error)
}

type PaymentIntentUseCase struct {
	gateway  interfaces.IPaymentGateway
	upstream entities.UpstreamConfig
	logger   zerolog.Logger
	metrics  *observability.PaymentMetrics
	tracer   trace.Tracer
}

var _ IPaymentIntentUseCase = (*PaymentIntentUseCase)(nil)

func NewPaymentIntentUseCase(gateway interfaces.IPaymentGateway, upstream entities.UpstreamConfig, logger zerolog.Logger, metrics *observability.PaymentMetrics) *PaymentIntentUseCase {
	if strings.TrimSpace(upstream.AcceptedCurrency) == "" {
		upstream.AcceptedCurrency = entities.DefaultAcceptedCurrency
	}
	return &PaymentIntentUseCase{
		gateway:  gateway,
		upstream: upstream,
		logger:   logging.Component(logger, "payment", "usecase"),
		metrics:  metrics,
		tracer:   otel.Tracer("khipu_gateway/usecase"),
	}
}

// Create returns either the provider success body or a *entities.PaymentFailure.
func (u *PaymentIntentUseCase) Create(ctx context.Context, req entities.PaymentRequest) (result entities.PaymentIntentResult, err error) {
	ctx, span := u.tracer.Start(ctx, "payment_intent.create")
	defer func() {
		u.finish(ctx, span, err)
		span.End()
	}()

	if u.upstream.APIKey == "" {
		u.logger.Error().Msg("missing KHIPU_MERCHANT_API_KEY")
		return entities.PaymentIntentResult{}, configFailure()
	}
	if u.gateway == nil {
		u.logger.Error().Msg("gateway not configured")
		return entities.PaymentIntentResult{}, &entities.PaymentFailure{
			Category:   entities.FailureUnexpected,
			HTTPStatus: http.StatusInternalServerError,
			Message:    "unexpected internal error: " + ErrPaymentGatewayNotConfigured.Error(),
			Err:        ErrPaymentGatewayNotConfigured,
		}
	}

	payload, err := NormalizePaymentRequest(req, u.upstream.AcceptedCurrency)
	if err != nil {
		return entities.PaymentIntentResult{}, err
	}
	u.logger.Info().
		Str("amount", payload.Amount.String()).
		Str("currency", payload.Currency).
		Msg("calling payment gateway")

	raw, err := u.gateway.CreatePayment(ctx, payload)
	if err != nil {
		return entities.PaymentIntentResult{}, ClassifyTransportError(err)
	}
	span.SetAttributes(attribute.Int("payment.provider.status_code", raw.StatusCode))

	return ClassifyUpstreamResponse(raw)
}

func (u *PaymentIntentUseCase) finish(ctx context.Context, span trace.Span, err error) {
	if err == nil {
		u.metrics.ObserveOutcome("success")
		u.logger.Info().Ctx(ctx).Msg("create success")
		return
	}

	var failure *entities.PaymentFailure
	if !errors.As(err, &failure) {
		failure = &entities.PaymentFailure{Category: entities.FailureUnexpected, HTTPStatus: http.StatusInternalServerError, Err: err}
	}
	u.metrics.ObserveOutcome(string(failure.Category))
	span.SetAttributes(
		attribute.String("payment.outcome", string(failure.Category)),
		attribute.Int("payment.http_status", failure.HTTPStatus),
	)
	span.SetStatus(codes.Error, failure.Message)

	evt := u.logger.Error()
	if failure.Category == entities.FailureValidation {
		evt = u.logger.Info()
	}
	evt.Ctx(ctx).
		Str("category", string(failure.Category)).
		Int("status", failure.HTTPStatus).
		Str("details", failure.Details).
		Msg("create failed: " + failure.Message)
}
