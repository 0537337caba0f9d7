package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	BaseURL            string        `env:"CALC_BASE_URL,required"`
	CSRFToken          string        `env:"CALC_CSRF_TOKEN,required"`
	SessionCookie      string        `env:"CALC_SESSION_COOKIE"`
	RedisAddr          string        `env:"REDIS_ADDR,required"`
	RedisPassword      string        `env:"REDIS_PASSWORD"`
	RedisDB            int           `env:"REDIS_DB" envDefault:"0"`
	RedisTTL           time.Duration `env:"REDIS_TTL" envDefault:"720h"`
	HTTPRequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	BlurCommitDelay    time.Duration `env:"BLUR_COMMIT_DELAY" envDefault:"100ms"`
	NotificationTTL    time.Duration `env:"NOTIFICATION_TTL" envDefault:"5s"`
	ProschetPageSize   int           `env:"PROSCHET_PAGE_SIZE" envDefault:"10"`
	ReportsDir         string        `env:"REPORTS_DIR" envDefault:"reports"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.ProschetPageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive")
	}

	return &cfg, nil
}
