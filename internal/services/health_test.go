package services

import (
	"context"
	"net"
	"strconv"
	"testing"

	"github.com/localnerve/jam-build-shoppinglist/internal/config"
	"github.com/localnerve/jam-build-shoppinglist/internal/database"
	"github.com/localnerve/jam-build-shoppinglist/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHealthCheckHealthy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := &config.Config{DBType: "sqlite-pure", DBDatabase: "memory", EmailBackend: "console"}

	result := HealthCheck(context.Background(), cfg, db, zap.NewNop())
	assert.True(t, result.Healthy())
	assert.Equal(t, "ok", result.Database)
	assert.Equal(t, "console", result.Mail)
	assert.Equal(t, "sqlite-pure", result.Details["database_type"])
}

func TestHealthCheckSMTP(t *testing.T) {
	db := testutil.SetupTestDB(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().(*net.TCPAddr)

	cfg := &config.Config{DBType: "sqlite-pure", EmailBackend: "smtp", EmailHost: "127.0.0.1", EmailPort: addr.Port}
	result := HealthCheck(context.Background(), cfg, db, zap.NewNop())
	assert.True(t, result.Healthy())
	assert.Equal(t, "ok", result.Mail)

	// nothing listens once closed
	require.NoError(t, ln.Close())
	result = HealthCheck(context.Background(), cfg, db, zap.NewNop())
	assert.False(t, result.Healthy())
	assert.Equal(t, "unreachable", result.Mail)
	assert.Contains(t, result.ErrorMessage, "SMTP ping failed")
	assert.Contains(t, result.Details["mail_error"], strconv.Itoa(addr.Port))
}

func TestHealthCheckDatabaseDown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	require.NoError(t, database.Close(db))

	cfg := &config.Config{DBType: "sqlite-pure", EmailBackend: "console"}
	result := HealthCheck(context.Background(), cfg, db, zap.NewNop())
	assert.False(t, result.Healthy())
	assert.Equal(t, "unreachable", result.Database)
	assert.Contains(t, result.ErrorMessage, "Database ping failed")
}
