package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func readyResponse(t *testing.T, h *HealthHandler) (int, map[string]any) {
	t.Helper()
	app := fiber.New()
	app.Get("/health/ready", h.Ready)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/health/ready", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestReady_AllDependenciesUp(t *testing.T) {
	ok := pingerFunc(func(context.Context) error { return nil })
	status, body := readyResponse(t, NewHealthHandler("svc", "test", zap.NewNop(), ok, ok))

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, map[string]any{"store": "ok", "redis": "ok"}, body["dependencies"])
}

func TestReady_HidesDependencyErrors(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	down := pingerFunc(func(context.Context) error {
		return errors.New("dial tcp 10.0.0.5:5432: connection refused")
	})
	ok := pingerFunc(func(context.Context) error { return nil })

	status, body := readyResponse(t, NewHealthHandler("svc", "test", zap.New(core), down, ok))

	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, map[string]any{"store": "unavailable", "redis": "ok"}, body["dependencies"])

	entries := logs.FilterMessage("readiness check failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "store", entries[0].ContextMap()["dependency"])
	assert.Contains(t, entries[0].ContextMap()["error"], "connection refused")
}

func TestReady_WithoutCache(t *testing.T) {
	ok := pingerFunc(func(context.Context) error { return nil })
	status, body := readyResponse(t, NewHealthHandler("svc", "test", nil, ok, nil))

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, map[string]any{"store": "ok"}, body["dependencies"])
}
