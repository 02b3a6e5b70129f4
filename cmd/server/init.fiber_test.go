package main

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rbac_admin/config"
	"rbac_admin/internal/api/rbac/memstore"
	rbacrouter "rbac_admin/internal/api/rbac/router"
	rbacsvc "rbac_admin/internal/api/rbac/service"
	apirouter "rbac_admin/internal/api/router"
	"rbac_admin/internal/global"
	"rbac_admin/internal/metrics"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func testConfig() *config.Configuration {
	return &config.Configuration{
		StorageDriver:  config.StorageMemory,
		RequestTimeout: time.Second,
		MetricsEnabled: true,
		CORS_Origins:   "*",
	}
}

func newServerApp(t *testing.T, cfg *config.Configuration) *fiber.App {
	t.Helper()
	require.NoError(t, metrics.Register(nil))
	svc := rbacsvc.NewServices(memstore.New().Repositories())
	app, err := InitFiberApp(cfg,
		apirouter.SystemRoutes(func() *mongo.Client { return nil }),
		rbacrouter.Register(svc, global.NewValidator(), cfg.RequestTimeout),
	)
	require.NoError(t, err)
	return app
}

func TestInitFiberApp_HealthAndHeaders(t *testing.T) {
	app := newServerApp(t, testConfig())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/system/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
}

func TestInitFiberApp_UnknownRouteUsesEnvelope(t *testing.T) {
	app := newServerApp(t, testConfig())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "error", body["status"])
}

func TestInitFiberApp_MetricsExposeRequests(t *testing.T) {
	app := newServerApp(t, testConfig())

	req := httptest.NewRequest("POST", "/api/v1/permissions", strings.NewReader(`{"name":"READ"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "http_requests_total")
}

func TestInitFiberApp_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit_Enabled = true
	cfg.RateLimit_Max = 2
	cfg.RateLimit_Window = 60
	app := newServerApp(t, cfg)

	var last int
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/permissions", nil))
		require.NoError(t, err)
		last = resp.StatusCode
	}
	assert.Equal(t, fiber.StatusTooManyRequests, last)

	// Health check không bị giới hạn
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/system/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, splitOrigins("*"))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, splitOrigins(" https://a.example, ,https://b.example "))
}
