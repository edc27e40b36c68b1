package config

import (
	"fmt"
	"strings"
	"time"

	"khipu_gateway/internal/domain/entities"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config is the process configuration, read once at startup.
//
// Supported env vars:
//   - PORT (default: 8080)
//   - APP_ENV (default: development)
//   - LOG_LEVEL (default: info), LOG_FORMAT (json|console, default: json)
//   - KHIPU_MERCHANT_API_KEY (secret; missing key makes every payment call fail with 500)
//   - KHIPU_TARGET_API_URL (default: https://payment-api.khipu.com)
//   - KHIPU_ACCEPTED_CURRENCY (default: ARS)
//   - KHIPU_REQUEST_TIMEOUT (default: 30s)
//   - PAYMENT_GATEWAY_MOCK (1|true|yes|on|mock enables the offline gateway)
//   - RATE_LIMIT (ulule/limiter format, e.g. 100-M; empty disables)
//   - OTEL_EXPORTER_OTLP_ENDPOINT (empty disables trace export), OTEL_SERVICE_NAME
type Config struct {
	AppEnv    string
	Port      string `validate:"required,numeric"`
	LogLevel  string
	LogFormat string

	KhipuAPIKey           string
	KhipuBaseURL          string        `validate:"required,url"`
	KhipuAcceptedCurrency string        `validate:"required,iso4217"`
	KhipuTimeout          time.Duration `validate:"gt=0"`
	PaymentGatewayMock    bool

	RateLimit string

	OTelEndpoint    string
	OTelServiceName string
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:    valueOrDefault(k.String("APP_ENV"), "development"),
		Port:      strings.TrimPrefix(valueOrDefault(k.String("PORT"), "8080"), ":"),
		LogLevel:  valueOrDefault(k.String("LOG_LEVEL"), "info"),
		LogFormat: valueOrDefault(k.String("LOG_FORMAT"), "json"),

		KhipuAPIKey:           strings.TrimSpace(k.String("KHIPU_MERCHANT_API_KEY")),
		KhipuBaseURL:          valueOrDefault(k.String("KHIPU_TARGET_API_URL"), entities.DefaultKhipuBaseURL),
		KhipuAcceptedCurrency: strings.ToUpper(valueOrDefault(k.String("KHIPU_ACCEPTED_CURRENCY"), entities.DefaultAcceptedCurrency)),
		KhipuTimeout:          parseDuration(k.String("KHIPU_REQUEST_TIMEOUT"), entities.DefaultUpstreamTimeout),
		PaymentGatewayMock:    parseBool(k.String("PAYMENT_GATEWAY_MOCK")),

		RateLimit: strings.TrimSpace(k.String("RATE_LIMIT")),

		OTelEndpoint:    strings.TrimSpace(k.String("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTelServiceName: valueOrDefault(k.String("OTEL_SERVICE_NAME"), "khipu-gateway"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad behaves like Load but panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate checks the values that cannot be fixed at request time.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Upstream returns the provider settings handed to the use case and gateway.
func (c *Config) Upstream() entities.UpstreamConfig {
	return entities.UpstreamConfig{
		APIKey:           c.KhipuAPIKey,
		BaseURL:          c.KhipuBaseURL,
		Timeout:          c.KhipuTimeout,
		AcceptedCurrency: c.KhipuAcceptedCurrency,
	}
}

// HTTPAddr returns the address the HTTP server binds to.
func (c *Config) HTTPAddr() string {
	return ":" + c.Port
}

func valueOrDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(value)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on", "mock":
		return true
	default:
		return false
	}
}
