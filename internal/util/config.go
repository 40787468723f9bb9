package util

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds process settings: where things live and which surfaces run.
// Framework behaviour lives in the INI handled by package config.
type Config struct {
	ConfigPath  string // SWF_CONFIG
	FixturePath string // SWF_DATA; empty uses the embedded fixture
	DSN         string // DATABASE_URL; wins over FixturePath
	HTTPAddr    string // SWF_HTTP_ADDR; empty disables the HTTP surface
	LogPath     string // SWF_LOG
	Seed        int64  // SWF_SEED; weather picks in the simulated sky
	Headless    bool
}

// LoadEnv reads an optional .env file and then the process environment.
func LoadEnv() Config {
	// Load .env file if it exists (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := Config{
		ConfigPath:  os.Getenv("SWF_CONFIG"),
		FixturePath: os.Getenv("SWF_DATA"),
		DSN:         os.Getenv("DATABASE_URL"),
		HTTPAddr:    os.Getenv("SWF_HTTP_ADDR"),
		LogPath:     os.Getenv("SWF_LOG"),
		Seed:        1,
	}
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = "SeasonalWeatherFramework.ini"
	}
	if cfg.LogPath == "" {
		cfg.LogPath = filepath.Join(filepath.Dir(cfg.ConfigPath), "seasonweather.log")
	}
	if raw := os.Getenv("SWF_SEED"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			cfg.Seed = v
		}
	}
	return cfg
}
