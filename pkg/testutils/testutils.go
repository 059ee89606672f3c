// Package testutils wires in-memory applications and HTTP helpers for tests.
package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirasaad/ledger/infra/eventbus"
	"github.com/amirasaad/ledger/infra/memory"
	"github.com/amirasaad/ledger/pkg/app"
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// TestConfig returns a configuration suitable for in-process tests.
func TestConfig() *config.App {
	return &config.App{
		Env:       "test",
		Server:    &config.Server{Host: "localhost", Port: 0, ShutdownTimeout: time.Second},
		Log:       &config.Log{Level: 4, Format: "text"},
		Store:     &config.Store{Driver: config.DriverMemory},
		DB:        &config.DB{LockTimeout: time.Second},
		Transfer:  &config.Transfer{MaxAttempts: 3, RetryBackoff: time.Millisecond},
		EventBus:  &config.EventBus{Driver: config.DriverMemory},
		RateLimit: &config.RateLimit{MaxRequests: 0, Window: time.Second},
	}
}

// NewTestApp builds an App over a fresh memory store and memory event bus.
func NewTestApp(t *testing.T, cfg *config.App) *app.App {
	t.Helper()
	if cfg == nil {
		cfg = TestConfig()
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore(
		memory.WithLockTimeout(cfg.DB.LockTimeout),
		memory.WithLogger(logger),
	)
	return app.New(config.Deps{
		Uow:      memory.NewUoW(store),
		EventBus: eventbus.NewWithMemory(logger),
		Logger:   logger,
		Config:   cfg,
	})
}

// MakeRequest is a helper for making HTTP requests in tests
func MakeRequest(t *testing.T, app *fiber.App, method, path, body string, headers ...string) *http.Response {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// DecodeJSON decodes the response body into a T.
func DecodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
