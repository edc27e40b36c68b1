package payments

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"

	"khipu_gateway/internal/domain/entities"
	"khipu_gateway/internal/infrastructure/logging"
	"khipu_gateway/internal/infrastructure/observability"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var ErrMissingKhipuAPIKey = errors.New("missing KHIPU_MERCHANT_API_KEY")

// KhipuGateway posts payment intents to the Khipu v3 API.
type KhipuGateway struct {
	client   *resty.Client
	endpoint string
	apiKey   string
	logger   zerolog.Logger
	metrics  *observability.PaymentMetrics
}

func NewKhipuGateway(cfg entities.UpstreamConfig, logger zerolog.Logger, metrics *observability.PaymentMetrics) *KhipuGateway {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = entities.DefaultKhipuBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = entities.DefaultUpstreamTimeout
	}
	logger = logging.Component(logger, "payment", "gateway")

	client := resty.New().
		SetTransport(otelhttp.NewTransport(http.DefaultTransport)).
		SetTimeout(timeout).
		SetLogger(restyLogger{logger: logger}).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &KhipuGateway{
		client:   client,
		endpoint: strings.TrimRight(baseURL, "/") + entities.KhipuPaymentsPath,
		apiKey:   cfg.APIKey,
		logger:   logger,
		metrics:  metrics,
	}
}

// Endpoint is the full URL payment intents are posted to.
func (g *KhipuGateway) Endpoint() string { return g.endpoint }

func (g *KhipuGateway) CreatePayment(ctx context.Context, payload entities.NormalizedPayload) (entities.RawResponse, error) {
	if g.apiKey == "" {
		g.logger.Error().Msg("missing KHIPU_MERCHANT_API_KEY")
		return entities.RawResponse{}, ErrMissingKhipuAPIKey
	}

	req := g.client.R().
		SetContext(ctx).
		SetHeader(entities.KhipuAPIKeyHeader, g.apiKey).
		SetBody(payload)

	g.logger.Info().Str("endpoint", g.endpoint).Msg("create start")
	if g.logger.GetLevel() <= zerolog.DebugLevel {
		g.logger.Debug().
			Interface("headers", logging.RedactHeaders(g.outboundHeaders(req), entities.KhipuAPIKeyHeader)).
			Interface("payload", payload).
			Msg("create request")
	}

	start := time.Now()
	resp, err := req.Post(g.endpoint)
	elapsed := time.Since(start)
	if err != nil {
		terr := classifyTransportError(err)
		g.metrics.ObserveUpstream(string(terr.Kind), elapsed)
		g.logger.Error().
			Err(err).
			Str("endpoint", g.endpoint).
			Str("kind", string(terr.Kind)).
			Dur("elapsed", elapsed).
			Msg("create transport failed")
		return entities.RawResponse{}, terr
	}

	raw := entities.RawResponse{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}
	g.metrics.ObserveUpstream(strconv.Itoa(raw.StatusCode), elapsed)
	g.logger.Info().
		Str("endpoint", g.endpoint).
		Int("status", raw.StatusCode).
		Dur("elapsed", elapsed).
		Msg("create response")
	g.logger.Debug().
		Interface("headers", logging.RedactHeaders(raw.Header)).
		Str("body", string(raw.Body)).
		Msg("create response body")

	return raw, nil
}

func (g *KhipuGateway) outboundHeaders(req *resty.Request) http.Header {
	h := g.client.Header.Clone()
	for key, values := range req.Header {
		h[key] = values
	}
	return h
}

func classifyTransportError(err error) *entities.TransportError {
	var terr *entities.TransportError
	if errors.As(err, &terr) {
		return terr
	}
	switch {
	case isTimeout(err):
		return &entities.TransportError{Kind: entities.TransportTimeout, Err: err}
	case isConnectionFailure(err):
		return &entities.TransportError{Kind: entities.TransportConnectionFailed, Err: err}
	default:
		return &entities.TransportError{Kind: entities.TransportUnexpected, Err: err}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isConnectionFailure(err error) bool {
	var opErr *net.OpError
	var dnsErr *net.DNSError
	switch {
	case errors.As(err, &opErr), errors.As(err, &dnsErr):
		return true
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET):
		return true
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return true
	case errors.Is(err, context.Canceled):
		return true
	}
	return false
}

type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) { l.logger.Error().Msgf(format, v...) }
func (l restyLogger) Warnf(format string, v ...interface{})  { l.logger.Warn().Msgf(format, v...) }
func (l restyLogger) Debugf(format string, v ...interface{}) { l.logger.Debug().Msgf(format, v...) }
