package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "khipu_gateway/docs"
	"khipu_gateway/internal/adapter/http/routes"
	"khipu_gateway/internal/infrastructure/config"
	"khipu_gateway/internal/infrastructure/logging"
	"khipu_gateway/internal/infrastructure/observability"
	"khipu_gateway/internal/infrastructure/payments"
	"khipu_gateway/internal/usecase"
	"khipu_gateway/internal/usecase/interfaces"

	"github.com/rs/zerolog"
)

// @title           Khipu Gateway API
// @version         1.0
// @description     Payment intent adapter that validates requests and forwards them to the Khipu payments API.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v3

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := logging.New("json", "info")
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger := logging.New(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: cfg.OTelServiceName,
		Endpoint:    cfg.OTelEndpoint,
		Environment: cfg.AppEnv,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init tracing")
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(flushCtx); err != nil {
			logger.Warn().Err(err).Msg("tracer shutdown")
		}
	}()

	metrics := observability.NewPaymentMetrics("khipu_gateway", nil)
	gateway := newPaymentGateway(cfg, logger, metrics)
	paymentUseCase := usecase.NewPaymentIntentUseCase(gateway, cfg.Upstream(), logger, metrics)

	if cfg.KhipuAPIKey == "" {
		logger.Warn().Msg("KHIPU_MERCHANT_API_KEY is not set; payment requests will fail with a configuration error")
	}

	err = routes.Run(ctx, routes.Dependencies{
		Config:               cfg,
		Logger:               logger,
		PaymentIntentUseCase: paymentUseCase,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to startup the application")
		os.Exit(1)
	}
}

func newPaymentGateway(cfg *config.Config, logger zerolog.Logger, metrics *observability.PaymentMetrics) interfaces.IPaymentGateway {
	if cfg.PaymentGatewayMock {
		logger.Warn().Msg("PAYMENT_GATEWAY_MOCK enabled; provider calls are simulated")
		return payments.NewMockGateway(logger)
	}
	gw := payments.NewKhipuGateway(cfg.Upstream(), logger, metrics)
	logger.Info().Str("endpoint", gw.Endpoint()).Dur("timeout", cfg.KhipuTimeout).Msg("khipu gateway configured")
	return gw
}
