package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jam-build-shoppinglist/internal/config"
	"github.com/localnerve/jam-build-shoppinglist/internal/server"
	"github.com/localnerve/jam-build-shoppinglist/internal/services"
	"github.com/localnerve/jam-build-shoppinglist/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	services.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type testServer struct {
	app    *fiber.App
	db     *gorm.DB
	mailer *testutil.MemoryMailer
}

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:               "production",
		DBType:               "sqlite-pure",
		DBDatabase:           "test",
		SecretKey:            "test-secret",
		EmailBackend:         "console",
		EmailHostUser:        "noreply@example.com",
		FrontendURL:          "http://frontend.test",
		PasswordResetTimeout: time.Hour,
		ThrottleAnonRate:     "1000/minute",
		ThrottleUserRate:     "1000/minute",
		LoginFailureLimit:    3,
		LoginCooloff:         time.Hour,
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}

	db := testutil.SetupTestDB(t)
	mailer := &testutil.MemoryMailer{}
	app, err := server.New(server.Deps{
		Config:    cfg,
		DB:        db,
		Log:       zap.NewNop(),
		Mailer:    mailer,
		Registry:  prometheus.NewRegistry(),
		AccessLog: io.Discard,
	})
	require.NoError(t, err)

	return &testServer{app: app, db: db, mailer: mailer}
}

// do sends a request; body is marshalled to JSON unless it is already a string
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Token "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// fieldErrors decodes a 400 field error body
func fieldErrors(t *testing.T, resp *http.Response) map[string][]string {
	t.Helper()
	var errs map[string][]string
	testutil.ParseJSON(t, resp, &errs)
	return errs
}
