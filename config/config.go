package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver        string
	DBDsn           string
	HTTPAddr        string
	TgToken         string
	QueryServiceURL string
	QueryServiceKey string
	ChunkTTL        time.Duration
	SweepSchedule   string
	RateLimitRPS    float64
	RateLimitBurst  int
	CORSOrigins     []string
}

var (
	config *Config
	once   sync.Once
)

// GetConfig returns the process-wide configuration, loaded from .env and the environment once.
func GetConfig() *Config {
	once.Do(func() {
		cfg, err := Load()
		if err != nil {
			slog.Error("load config", "error", err)
			os.Exit(1)
		}
		config = cfg
	})
	return config
}

// Load reads the given .env files (".env" when none) and then the environment.
// A missing .env file is not an error.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{
		DBDriver:        getenv("DB_DRIVER", "sqlite"),
		DBDsn:           getenv("DB_DSN", "genbi.db"),
		HTTPAddr:        getenv("HTTP_ADDR", ":8005"),
		TgToken:         os.Getenv("TG_TOKEN"),
		QueryServiceURL: os.Getenv("QUERY_SERVICE_URL"),
		QueryServiceKey: os.Getenv("QUERY_SERVICE_KEY"),
		SweepSchedule:   getenv("SWEEP_SCHEDULE", "@every 10m"),
	}

	var err error
	if cfg.ChunkTTL, err = time.ParseDuration(getenv("CHUNK_TTL", "2h")); err != nil {
		return nil, fmt.Errorf("CHUNK_TTL: %w", err)
	}
	if cfg.RateLimitRPS, err = strconv.ParseFloat(getenv("RATE_LIMIT_RPS", "20"), 64); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_RPS: %w", err)
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(getenv("RATE_LIMIT_BURST", "40")); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_BURST: %w", err)
	}
	for _, origin := range strings.Split(getenv("CORS_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
