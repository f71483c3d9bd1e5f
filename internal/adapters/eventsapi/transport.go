package eventsapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request identifier to the backend.
const RequestIDHeader = "X-Request-ID"

type loggingTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

// NewLoggingTransport wraps next so every outbound request gets an X-Request-ID and is logged
// with method, path, status, and duration. Bodies are not logged.
func NewLoggingTransport(logger *slog.Logger, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &loggingTransport{next: next, logger: logger}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(RequestIDHeader) == "" {
		req = req.Clone(req.Context())
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	duration := time.Since(start)
	if err != nil {
		t.logger.Error("outbound request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"request_id", req.Header.Get(RequestIDHeader),
			"duration_ms", duration.Milliseconds(),
			"err", err,
		)
		return nil, err
	}
	t.logger.Info("outbound request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"request_id", req.Header.Get(RequestIDHeader),
		"duration_ms", duration.Milliseconds(),
	)
	return resp, nil
}

// NewHTTPClient returns an http.Client with the logging transport. A zero timeout waits indefinitely.
func NewHTTPClient(logger *slog.Logger, timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: NewLoggingTransport(logger, http.DefaultTransport),
		Timeout:   timeout,
	}
}
