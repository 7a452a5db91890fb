package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port              int           `envconfig:"PORT" default:"8080"`
	DatabaseURL       string        `envconfig:"DATABASE_URL" default:""`
	JWTSecret         string        `envconfig:"JWT_SECRET" default:"dev-secret-change-in-production"`
	TokenTTL          time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	AllowedOrigins    string        `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	AnimationDuration time.Duration `envconfig:"ANIMATION_DURATION" default:"300ms"`
	FadeDuration      time.Duration `envconfig:"FADE_DURATION" default:"200ms"`
	AnimationEasing   string        `envconfig:"ANIMATION_EASING" default:"easeInOut"`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
	PreviewMaxWidth   int           `envconfig:"PREVIEW_MAX_WIDTH" default:"2048"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins into its entries.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level: %w", err)
	}
	return l, nil
}
