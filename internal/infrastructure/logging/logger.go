package logging

import (
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const redacted = "[REDACTED]"

// New configures a zerolog logger. format "console" (or "text") switches to
// human readable output; anything else writes JSON lines.
func New(format, level string) zerolog.Logger {
	return NewWithWriter(os.Stdout, format, level)
}

func NewWithWriter(w io.Writer, format, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := w
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "console", "text":
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// Component derives the logger used by one layer, e.g. Component(l, "payment", "gateway").
func Component(logger zerolog.Logger, scope, layer string) zerolog.Logger {
	return logger.With().Str("scope", scope).Str("layer", layer).Logger()
}

// RedactHeaders flattens headers for logging, masking the listed secret keys.
func RedactHeaders(h http.Header, secret ...string) map[string]string {
	out := make(map[string]string, len(h))
	for key, values := range h {
		out[key] = strings.Join(values, ",")
		for _, s := range secret {
			if strings.EqualFold(key, s) {
				out[key] = redacted
				break
			}
		}
	}
	return out
}
