package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-shoppinglist/internal/config"
	"github.com/localnerve/jam-build-shoppinglist/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newApp(t *testing.T, cfg *config.Config) *fiber.App {
	t.Helper()
	app, err := New(Deps{
		Config:    cfg,
		DB:        testutil.SetupTestDB(t),
		Log:       zap.NewNop(),
		Mailer:    &testutil.MemoryMailer{},
		Registry:  prometheus.NewRegistry(),
		AccessLog: io.Discard,
	})
	require.NoError(t, err)
	return app
}

func baseConfig() *config.Config {
	return &config.Config{
		AppEnv:           "production",
		DBType:           "sqlite-pure",
		EmailBackend:     "console",
		SecretKey:        "test-secret",
		ThrottleAnonRate: "100/minute",
		ThrottleUserRate: "100/minute",
	}
}

func TestNewRejectsBadRates(t *testing.T) {
	cfg := baseConfig()
	cfg.ThrottleUserRate = "lots"

	_, err := New(Deps{Config: cfg, Log: zap.NewNop()})
	assert.Error(t, err)
}

func TestMetricsEndpoint(t *testing.T) {
	app := newApp(t, baseConfig())

	// one API request so the counters have something to report
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/health", nil), -1)
	require.NoError(t, err)
	testutil.AssertStatus(t, resp, http.StatusOK)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	testutil.AssertStatus(t, resp, http.StatusOK)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "http_requests_total")
}

func TestSwaggerDoc(t *testing.T) {
	app := newApp(t, baseConfig())

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/swagger/doc.json", nil), -1)
	require.NoError(t, err)
	testutil.AssertStatus(t, resp, http.StatusOK)
	doc := testutil.ParseMap(t, resp)
	paths, ok := doc["paths"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, paths, "/shoppinglist/{pk}/share/")
}

func TestRequestIDHeader(t *testing.T) {
	app := newApp(t, baseConfig())

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/nowhere", nil), -1)
	require.NoError(t, err)
	testutil.AssertStatus(t, resp, http.StatusNotFound)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}
