package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_DATABASE", "shoppinglist")
	t.Setenv("DB_USER", "app")
	t.Setenv("SECRET_KEY", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBType)
	assert.Equal(t, 10, cfg.DBConnectionLimit)
	assert.Equal(t, "console", cfg.EmailBackend)
	assert.Equal(t, 24*time.Hour, cfg.PasswordResetTimeout)
	assert.Equal(t, 10*time.Second, cfg.EmailTimeout)
	assert.Equal(t, 5, cfg.LoginFailureLimit)
	assert.Equal(t, time.Hour, cfg.LoginCooloff)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_CONNECTION_LIMIT", "not-a-number")
	t.Setenv("LOGIN_COOLOFF", "900")
	t.Setenv("PASSWORD_RESET_TIMEOUT", "2h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 10, cfg.DBConnectionLimit, "bad ints fall back to the default")
	assert.Equal(t, 15*time.Minute, cfg.LoginCooloff)
	assert.Equal(t, 2*time.Hour, cfg.PasswordResetTimeout)
}

func TestLoadRequired(t *testing.T) {
	tests := []struct {
		name    string
		unset   string
		wantErr string
	}{
		{"database", "DB_DATABASE", "DB_DATABASE is required"},
		{"user", "DB_USER", "DB_USER is required"},
		{"secret", "SECRET_KEY", "SECRET_KEY is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.unset, "")

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadSQLiteNeedsNoUser(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_USER", "")
	t.Setenv("DB_TYPE", "sqlite-pure")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsSQLite())
}

func TestLoadRejectsBadSettings(t *testing.T) {
	setRequired(t)
	t.Setenv("THROTTLE_ANON_RATE", "lots")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("THROTTLE_ANON_RATE", "10/min")
	t.Setenv("EMAIL_BACKEND", "carrier-pigeon")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "DB_DATABASE=fromfile\nDB_USER=fileuser\nSECRET_KEY=filesecret\nPORT=4000\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// godotenv does not override variables that are already set
	for _, key := range []string{"DB_DATABASE", "DB_USER", "SECRET_KEY", "PORT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.DBDatabase)
	assert.Equal(t, "4000", cfg.Port)

	_, err = LoadFile(filepath.Join(dir, "missing.env"))
	assert.Error(t, err)
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		in      string
		want    Rate
		wantErr bool
	}{
		{"100/day", Rate{100, 24 * time.Hour}, false},
		{"5/min", Rate{5, time.Minute}, false},
		{"10/s", Rate{10, time.Second}, false},
		{" 3 / hour ", Rate{3, time.Hour}, false},
		{"10", Rate{}, true},
		{"0/day", Rate{}, true},
		{"ten/day", Rate{}, true},
		{"10/week", Rate{}, true},
		{"10/", Rate{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
