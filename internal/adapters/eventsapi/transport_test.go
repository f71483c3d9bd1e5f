package eventsapi

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingHandler records the last log record for assertions.
type capturingHandler struct {
	mu     sync.Mutex
	record slog.Record
}

func (h *capturingHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *capturingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record = r.Clone()
	return nil
}

func (h *capturingHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }

func (h *capturingHandler) WithGroup(_ string) slog.Handler { return h }

func (h *capturingHandler) attrs() (string, map[string]slog.Value) {
	h.mu.Lock()
	defer h.mu.Unlock()
	attrs := make(map[string]slog.Value)
	h.record.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value
		return true
	})
	return h.record.Message, attrs
}

func TestLoggingTransport(t *testing.T) {
	var cap capturingHandler
	var seenID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = r.Header.Get(RequestIDHeader)
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	client := NewHTTPClient(slog.New(&cap), 0)
	resp, err := client.Get(srv.URL + "/events")
	require.NoError(t, err)
	resp.Body.Close()

	msg, attrs := cap.attrs()
	require.Equal(t, "outbound request", msg)
	assert.Equal(t, "GET", attrs["method"].String())
	assert.Equal(t, "/events", attrs["path"].String())
	assert.Equal(t, int64(http.StatusTeapot), attrs["status"].Int64())
	assert.NotEmpty(t, seenID)
	assert.Equal(t, seenID, attrs["request_id"].String())
	_, hasDuration := attrs["duration_ms"]
	assert.True(t, hasDuration)
}

func TestLoggingTransport_KeepsCallerRequestID(t *testing.T) {
	var seenID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = r.Header.Get(RequestIDHeader)
	}))
	defer srv.Close()

	client := NewHTTPClient(slog.New(&capturingHandler{}), 0)
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "fixed-id")
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "fixed-id", seenID)
}

func TestLoggingTransport_NetworkError(t *testing.T) {
	var cap capturingHandler
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewHTTPClient(slog.New(&cap), 0)
	_, err := client.Get(url)
	require.Error(t, err)
	msg, attrs := cap.attrs()
	assert.Equal(t, "outbound request failed", msg)
	assert.Equal(t, "GET", attrs["method"].String())
}
