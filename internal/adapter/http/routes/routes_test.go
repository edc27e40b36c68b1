package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"khipu_gateway/internal/adapter/http/handlers/mocks"
	"khipu_gateway/internal/domain/entities"
	"khipu_gateway/internal/infrastructure/config"
	"khipu_gateway/internal/infrastructure/observability"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:                "test",
		Port:                  "8080",
		KhipuAPIKey:           "secret",
		KhipuBaseURL:          entities.DefaultKhipuBaseURL,
		KhipuAcceptedCurrency: "ARS",
		KhipuTimeout:          entities.DefaultUpstreamTimeout,
		OTelServiceName:       "khipu-gateway-test",
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) (*gin.Engine, *mocks.MockIPaymentIntentUseCase, *prometheus.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockIPaymentIntentUseCase(ctrl)
	reg := prometheus.NewRegistry()

	router, err := NewRouter(Dependencies{Config: cfg, Logger: zerolog.Nop(), PaymentIntentUseCase: uc, Gatherer: reg})
	require.NoError(t, err)
	return router, uc, reg
}

func serve(r *gin.Engine, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	t.Run("ping and health check", func(t *testing.T) {
		r, _, _ := newTestRouter(t, testConfig())

		w := serve(r, http.MethodGet, "/v1/ping", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = serve(r, http.MethodGet, "/v3/health_check_payments", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `"status":"OK"`)
	})

	t.Run("create payment is routed", func(t *testing.T) {
		r, uc, _ := newTestRouter(t, testConfig())
		uc.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(entities.PaymentIntentResult{Body: json.RawMessage(`{"payment_id":"abc"}`)}, nil)

		w := serve(r, http.MethodPost, "/v3/payments", `{"subject":"s","amount":10,"currency":"ARS"}`, nil)
		require.Equal(t, http.StatusCreated, w.Code)
		require.JSONEq(t, `{"payment_id":"abc"}`, w.Body.String())
	})

	t.Run("request id is generated or propagated", func(t *testing.T) {
		r, _, _ := newTestRouter(t, testConfig())

		w := serve(r, http.MethodGet, "/v1/ping", "", nil)
		require.Len(t, w.Header().Get(HeaderRequestID), 36)

		w = serve(r, http.MethodGet, "/v1/ping", "", http.Header{HeaderRequestID: {"req-123"}})
		require.Equal(t, "req-123", w.Header().Get(HeaderRequestID))
	})

	t.Run("unknown route is json 404", func(t *testing.T) {
		r, _, _ := newTestRouter(t, testConfig())
		w := serve(r, http.MethodGet, "/v3/nope", "", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		require.JSONEq(t, `{"error":"resource not found"}`, w.Body.String())
	})

	t.Run("metrics endpoint exposes payment collectors", func(t *testing.T) {
		r, _, reg := newTestRouter(t, testConfig())
		metrics := observability.NewPaymentMetrics("khipu_gateway", reg)
		metrics.ObserveOutcome("success")

		w := serve(r, http.MethodGet, "/metrics", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "khipu_gateway_payment_intent_outcomes_total")
	})

	t.Run("panics become json 500", func(t *testing.T) {
		r, _, _ := newTestRouter(t, testConfig())
		r.GET("/boom", func(*gin.Context) { panic("boom") })

		w := serve(r, http.MethodGet, "/boom", "", nil)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.JSONEq(t, `{"error":"unexpected internal error"}`, w.Body.String())
	})
}

func TestNewRouter_RateLimit(t *testing.T) {
	t.Run("limits create payment per client", func(t *testing.T) {
		cfg := testConfig()
		cfg.RateLimit = "1-M"
		r, uc, _ := newTestRouter(t, cfg)
		uc.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(entities.PaymentIntentResult{Body: json.RawMessage(`{}`)}, nil).Times(1)

		body := `{"subject":"s","amount":10,"currency":"ARS"}`
		require.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/v3/payments", body, nil).Code)

		w := serve(r, http.MethodPost, "/v3/payments", body, nil)
		require.Equal(t, http.StatusTooManyRequests, w.Code)
		require.True(t, strings.Contains(w.Body.String(), "rate limit exceeded"))

		require.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/v3/health_check_payments", "", nil).Code)
	})

	t.Run("invalid rate is rejected", func(t *testing.T) {
		cfg := testConfig()
		cfg.RateLimit = "lots"
		_, err := NewRouter(Dependencies{Config: cfg, Logger: zerolog.Nop()})
		require.Error(t, err)
	})
}
