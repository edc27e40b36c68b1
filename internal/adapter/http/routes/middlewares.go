package routes

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"khipu_gateway/pkg"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.opentelemetry.io/otel/trace"
)

const (
	HeaderRequestID = "X-Request-ID"
	ctxRequestID    = "request_id"
)

// requestID propagates the caller's X-Request-ID or mints a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// requestLogger writes one structured line per request.
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		traceID, spanID := "", ""
		if spanCtx := trace.SpanContextFromContext(c.Request.Context()); spanCtx.IsValid() {
			traceID = spanCtx.TraceID().String()
			spanID = spanCtx.SpanID().String()
		}

		evt := logger.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			evt = logger.Error()
		}
		evt.Str("method", c.Request.Method).
			Str("route", route).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Int("bytes", c.Writer.Size()).
			Str("request_id", c.GetString(ctxRequestID)).
			Str("trace_id", traceID).
			Str("span_id", spanID).
			Msg("http request")
	}
}

// recovery turns panics into a JSON 500.
func recovery(logger zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error().
			Str("request_id", c.GetString(ctxRequestID)).
			Str("panic", fmt.Sprint(recovered)).
			Msg("recovered from panic")
		appErr := pkg.NewDomainErrorSimple("INTERNAL_ERROR", "unexpected internal error", http.StatusInternalServerError)
		c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
	})
}

// rateLimit builds a per client IP limiter from a formatted rate such as
// "100-M". An empty rate disables limiting.
func rateLimit(formatted string) (gin.HandlerFunc, error) {
	if strings.TrimSpace(formatted) == "" {
		return nil, nil
	}
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT %q: %w", formatted, err)
	}
	instance := limiter.New(memory.NewStore(), rate)
	return mgin.NewMiddleware(instance, mgin.WithLimitReachedHandler(func(c *gin.Context) {
		appErr := pkg.NewDomainErrorSimple("RATE_LIMITED", "rate limit exceeded", http.StatusTooManyRequests)
		c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
	})), nil
}

func notFound(c *gin.Context) {
	appErr := pkg.NewDomainErrorSimple("NOT_FOUND", "resource not found", http.StatusNotFound)
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
