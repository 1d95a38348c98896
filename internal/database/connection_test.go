package database_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/localnerve/jam-build-shoppinglist/internal/config"
	"github.com/localnerve/jam-build-shoppinglist/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestDialector(t *testing.T) {
	tests := []struct {
		dbType string
		name   string
	}{
		{"mysql", "mysql"},
		{"mariadb", "mysql"},
		{"postgres", "postgres"},
		{"postgresql", "postgres"},
		{"sqlite", "sqlite"},
		{"sqlite-pure", "sqlite"},
		{"sqlserver", "sqlserver"},
		{"mssql", "sqlserver"},
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			cfg := &config.Config{
				DBType:     tt.dbType,
				DBHost:     "localhost",
				DBPort:     "5432",
				DBDatabase: "shoppinglist",
				DBUser:     "app",
				DBPassword: "secret",
			}
			d, err := database.Dialector(cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.name, d.Name())
		})
	}

	_, err := database.Dialector(&config.Config{DBType: "oracle"})
	assert.EqualError(t, err, "unsupported database type: oracle")
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, database.LogLevel("silent"))
	assert.Equal(t, logger.Error, database.LogLevel("ERROR"))
	assert.Equal(t, logger.Info, database.LogLevel("info"))
	assert.Equal(t, logger.Warn, database.LogLevel(""))
	assert.Equal(t, logger.Warn, database.LogLevel("verbose"))
}

func TestConnectSQLiteEnforcesForeignKeys(t *testing.T) {
	cfg := &config.Config{
		DBType:            "sqlite-pure",
		DBDatabase:        filepath.Join(t.TempDir(), "shoppinglist.db"),
		DBConnectionLimit: 10,
		DBLogLevel:        "silent",
	}

	db, err := database.Connect(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	var enabled int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	require.NoError(t, database.AutoMigrate(db))
	for _, table := range []string{"users", "auth_tokens", "access_attempts", "shopping_lists", "shopping_list_shared_with", "items", "notifications"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestPing(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	ctx := context.Background()

	mock.ExpectPing()
	assert.NoError(t, database.Ping(ctx, db))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	assert.EqualError(t, database.Ping(ctx, db), "connection refused")

	mock.ExpectClose()
	assert.NoError(t, database.Close(db))

	assert.NoError(t, mock.ExpectationsWereMet())
}
