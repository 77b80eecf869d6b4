package utils

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

var maskedHeaders = []string{"Cookie", "Authorization"}

type loggingTransport struct {
	base   http.RoundTripper
	logger *slog.Logger
}

// LoggingTransport logs every request issued through base at debug level.
// Cookie and Authorization headers are masked.
func LoggingTransport(base http.RoundTripper, logger *slog.Logger) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	return &loggingTransport{
		base:   base,
		logger: logger.With("logger", "http"),
	}
}

func (t *loggingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(r)
	duration := time.Since(start)

	if !t.logger.Enabled(r.Context(), slog.LevelDebug) {
		return resp, err
	}

	var headers []any
	for k, v := range r.Header {
		value := v[0]
		for _, masked := range maskedHeaders {
			if http.CanonicalHeaderKey(k) == masked {
				value = "***"
			}
		}
		headers = append(headers, slog.String(k, value))
	}

	request := slog.Group("request", slog.String("url", r.URL.String()), slog.String("method", r.Method), slog.Group("headers", headers...))
	if err != nil {
		t.logger.LogAttrs(r.Context(), slog.LevelDebug, "Request failed", request, slog.String("error", err.Error()), slog.Float64("elapsed", duration.Seconds()))
		return resp, err
	}

	t.logger.LogAttrs(r.Context(), slog.LevelDebug, fmt.Sprintf("Response: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		request,
		slog.Group("response", slog.Int("status", resp.StatusCode), slog.Int64("bytes", resp.ContentLength), slog.Float64("elapsed", duration.Seconds())),
	)

	return resp, err
}
