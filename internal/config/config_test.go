package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every GONGGU_ variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "GONGGU_") {
			t.Setenv(key, "") // restores the original value on cleanup
			os.Unsetenv(key)  //nolint:errcheck
		}
	}
}

func TestLoad(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	type want struct {
		apiURL    string
		timeout   time.Duration
		store     string
		home      string
		logFile   string
		redisAddr string
		redisDB   int
		debug     bool
	}

	tests := []struct {
		name string
		env  map[string]string
		want want
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			want: want{
				apiURL:    "http://localhost:3000",
				timeout:   15 * time.Second,
				store:     StoreFile,
				home:      filepath.Join(home, ".gonggu"),
				logFile:   filepath.Join(home, ".gonggu", "gonggu.log"),
				redisAddr: "localhost:6379",
			},
		},
		{
			name: "env overrides",
			env: map[string]string{
				"GONGGU_API_URL":    "https://api.gonggu.app/",
				"GONGGU_TIMEOUT":    "3s",
				"GONGGU_STORE":      "redis",
				"GONGGU_HOME":       "/var/lib/gonggu",
				"GONGGU_REDIS_ADDR": "redis:6380",
				"GONGGU_REDIS_DB":   "2",
				"GONGGU_DEBUG":      "true",
			},
			want: want{
				apiURL:    "https://api.gonggu.app",
				timeout:   3 * time.Second,
				store:     StoreRedis,
				home:      "/var/lib/gonggu",
				logFile:   "/var/lib/gonggu/gonggu.log",
				redisAddr: "redis:6380",
				redisDB:   2,
				debug:     true,
			},
		},
		{
			name: "explicit log file",
			env: map[string]string{
				"GONGGU_HOME":     "/tmp/g",
				"GONGGU_LOG_FILE": "/tmp/other.log",
				"GONGGU_STORE":    "sqlite",
			},
			want: want{
				apiURL:    "http://localhost:3000",
				timeout:   15 * time.Second,
				store:     StoreSQLite,
				home:      "/tmp/g",
				logFile:   "/tmp/other.log",
				redisAddr: "localhost:6379",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			require.NoError(t, err)

			assert.Equal(t, tt.want.apiURL, cfg.APIURL)
			assert.Equal(t, tt.want.timeout, cfg.Timeout)
			assert.Equal(t, tt.want.store, cfg.Store)
			assert.Equal(t, tt.want.home, cfg.Home)
			assert.Equal(t, tt.want.logFile, cfg.LogFile)
			assert.Equal(t, tt.want.redisAddr, cfg.Redis.Addr)
			assert.Equal(t, tt.want.redisDB, cfg.Redis.DB)
			assert.Equal(t, "gonggu:", cfg.Redis.Prefix)
			assert.Equal(t, tt.want.debug, cfg.Debug)
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown store", map[string]string{"GONGGU_STORE": "postgres"}},
		{"bad timeout", map[string]string{"GONGGU_TIMEOUT": "soon"}},
		{"zero timeout", map[string]string{"GONGGU_TIMEOUT": "0s"}},
		{"bad redis db", map[string]string{"GONGGU_REDIS_DB": "one"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GONGGU_STORE", "") // godotenv sets it outside t.Setenv
	os.Unsetenv("GONGGU_STORE")  //nolint:errcheck
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("GONGGU_STORE=memory\nGONGGU_API_URL=http://dotenv:1\n"), 0o600))
	t.Setenv("GONGGU_API_URL", "http://from-env:2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, "http://from-env:2", cfg.APIURL, "real env wins over .env")
}

func TestPaths(t *testing.T) {
	cfg := &Config{Home: "/data"}
	assert.Equal(t, "/data/state.json", cfg.StatePath())
	assert.Equal(t, "/data/gonggu.db", cfg.SQLitePath())
}
