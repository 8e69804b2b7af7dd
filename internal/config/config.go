package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel    string `yaml:"log_level"`
	MetricsPort string `yaml:"metrics_port"`

	OneBotURL         string `yaml:"onebot_url"`
	OneBotAccessToken string `yaml:"onebot_access_token"`

	CMBaseURL   string `yaml:"base_url"`
	CMAuthToken string `yaml:"auth_token"`

	EnableGroupFilter bool    `yaml:"enable_group_filter"`
	FilterGroups      []int64 `yaml:"filter_group"`
	Admins            []int64 `yaml:"admins"`

	ThumbnailMode       string  `yaml:"thumbnail_mode"`
	ThumbnailTempDir    string  `yaml:"thumbnail_temp_dir"`
	ThumbnailRatePerSec float64 `yaml:"thumbnail_rate_per_sec"`
}

const (
	ThumbnailModeBase64   = "base64"
	ThumbnailModeTempFile = "tempfile"
)

func Load() Config {
	return Config{
		LogLevel:    mustEnv("LOG_LEVEL", "info"),
		MetricsPort: mustEnv("METRICS_PORT", "9090"),

		OneBotURL:         mustEnv("ONEBOT_URL", "ws://localhost:3001"),
		OneBotAccessToken: mustEnv("ONEBOT_ACCESS_TOKEN", ""),

		CMBaseURL:   mustEnv("CM_BASE_URL", ""),
		CMAuthToken: mustEnv("CM_AUTH_TOKEN", ""),

		EnableGroupFilter: mustEnvBool("CM_ENABLE_GROUP_FILTER", false),
		FilterGroups:      mustEnvInt64List("CM_FILTER_GROUPS", nil),
		Admins:            mustEnvInt64List("BOT_ADMINS", nil),

		ThumbnailMode:       mustEnv("THUMBNAIL_MODE", ThumbnailModeBase64),
		ThumbnailTempDir:    mustEnv("THUMBNAIL_TEMP_DIR", os.TempDir()),
		ThumbnailRatePerSec: mustEnvFloat("THUMBNAIL_RATE_PER_SEC", 2),
	}
}

// LoadFile reads a YAML config file on top of env defaults: keys present
// in the file win, everything else keeps the Load() value.
func LoadFile(path string) (Config, error) {
	cfg := Load()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// Complete reports whether the backend integration is configured at all.
// An empty base URL or credential disables the integration for the
// process lifetime.
func (c Config) Complete() bool {
	return c.CMBaseURL != "" && c.CMAuthToken != ""
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func mustEnvInt64List(key string, fallback []int64) []int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return fallback
		}
		out = append(out, n)
	}
	return out
}
