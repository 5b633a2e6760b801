// Package config reads gonggu settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store backends selectable with GONGGU_STORE.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Config holds the client settings.
type Config struct {
	APIURL  string        `env:"GONGGU_API_URL" envDefault:"http://localhost:3000"`
	Timeout time.Duration `env:"GONGGU_TIMEOUT" envDefault:"15s"`

	Store string `env:"GONGGU_STORE" envDefault:"file"`
	// Home holds the state file, the SQLite database and the log. A leading
	// "~" is expanded.
	Home string `env:"GONGGU_HOME" envDefault:"~/.gonggu"`

	Redis struct {
		Addr     string `env:"ADDR" envDefault:"localhost:6379"`
		Password string `env:"PASSWORD"`
		DB       int    `env:"DB" envDefault:"0"`
		Prefix   string `env:"PREFIX" envDefault:"gonggu:"`
	} `envPrefix:"GONGGU_REDIS_"`

	LogFile string `env:"GONGGU_LOG_FILE"`
	Debug   bool   `env:"GONGGU_DEBUG" envDefault:"false"`
}

// Load reads .env from the working directory when present, then the
// environment. Variables already set win over .env entries.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.Store {
	case StoreFile, StoreRedis, StoreSQLite, StoreMemory:
	default:
		return nil, fmt.Errorf("invalid GONGGU_STORE %q: want file, redis, sqlite or memory", cfg.Store)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("invalid GONGGU_TIMEOUT %s: must be positive", cfg.Timeout)
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	home, err := expandHome(cfg.Home)
	if err != nil {
		return nil, err
	}
	cfg.Home = home
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.Home, "gonggu.log")
	}
	return cfg, nil
}

// StatePath is the JSON file used by the file store.
func (c *Config) StatePath() string {
	return filepath.Join(c.Home, "state.json")
}

// SQLitePath is the database used by the sqlite store.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.Home, "gonggu.db")
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
