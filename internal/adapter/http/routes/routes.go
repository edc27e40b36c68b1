package routes

import (
	"context"
	"errors"
	"net/http"
	"time"

	_ "khipu_gateway/docs" // This will be auto-generated
	"khipu_gateway/internal/adapter/http/handlers"
	"khipu_gateway/internal/infrastructure/config"
	"khipu_gateway/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const shutdownTimeout = 10 * time.Second

// Dependencies are the collaborators the router is built from.
type Dependencies struct {
	Config               *config.Config
	Logger               zerolog.Logger
	PaymentIntentUseCase usecase.IPaymentIntentUseCase
	// Gatherer backs /metrics; the default registry when nil.
	Gatherer prometheus.Gatherer
}

// NewRouter builds the gin engine with middlewares and every route.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.Config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	limit, err := rateLimit(deps.Config.RateLimit)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	setMiddlewares(router, deps)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(metricsHandler(deps.Gatherer)))
	router.NoRoute(notFound)

	paymentHandler := handlers.NewPaymentIntentHandler(deps.PaymentIntentUseCase, deps.Logger)
	healthHandler := handlers.NewHealthHandler()

	v1 := router.Group("/v1")
	addPingRoutes(v1, healthHandler)

	v3 := router.Group(PathPaymentsAPIVersion)
	addPaymentRoutes(v3, paymentHandler, healthHandler, limit)

	return router, nil
}

// Run serves the router until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, deps Dependencies) error {
	router, err := NewRouter(deps)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              deps.Config.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		deps.Logger.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	deps.Logger.Info().Msg("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func setMiddlewares(router *gin.Engine, deps Dependencies) {
	logger := deps.Logger.With().Str("scope", "http").Logger()
	router.Use(recovery(logger))
	router.Use(requestID())
	router.Use(otelgin.Middleware(deps.Config.OTelServiceName))
	router.Use(requestLogger(logger))
}

func metricsHandler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
