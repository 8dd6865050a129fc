package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultPageSize = 20
)

type Config struct {
	// ServerURL is the aggregator backend base URL, e.g. "http://localhost:8080".
	ServerURL string `koanf:"server_url"`

	// TimeoutSeconds bounds every backend request (default 30).
	TimeoutSeconds int `koanf:"timeout_seconds"`

	Search SearchConfig `koanf:"search"`
	Audio  AudioConfig  `koanf:"audio"`

	Debug bool `koanf:"debug"`
}

// SearchConfig holds default search behavior.
type SearchConfig struct {
	Service      string   `koanf:"service"`       // default single service, e.g. "qobuz"
	Services     []string `koanf:"services"`      // services used in multi-service mode
	MultiService bool     `koanf:"multi_service"` // fan out to Services instead of Service
	PageSize     int      `koanf:"page_size"`
}

// AudioConfig holds playback tuning.
type AudioConfig struct {
	Quality      string `koanf:"quality"`       // requested stream quality, backend-interpreted
	BufferMillis int    `koanf:"buffer_millis"` // speaker buffer length (default 100)
}

func Load() (*Config, error) {
	// A .env next to the binary can seed the environment overrides.
	_ = godotenv.Load()

	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	// Normalize server URL (remove trailing slash)
	cfg.ServerURL = strings.TrimSuffix(cfg.ServerURL, "/")

	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = int(defaultTimeout / time.Second)
	}
	if cfg.Search.PageSize <= 0 {
		cfg.Search.PageSize = defaultPageSize
	}
	if cfg.Audio.BufferMillis <= 0 {
		cfg.Audio.BufferMillis = 100
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CHORUS_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("CHORUS_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("CHORUS_DEBUG"); v != "" {
		cfg.Debug = v == "1" || strings.EqualFold(v, "true")
	}
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/chorus/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "chorus", "config.toml"))
	}

	// 2. ./config.toml (pwd)
	paths = append(paths, "config.toml")

	// 3. explicit override, highest priority; "~" allowed
	if v := os.Getenv("CHORUS_CONFIG"); v != "" {
		paths = append(paths, expandPath(v))
	}

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SpeakerBuffer returns the audio buffer length as a duration.
func (c *Config) SpeakerBuffer() time.Duration {
	return time.Duration(c.Audio.BufferMillis) * time.Millisecond
}

// SelectedServices returns the service list a search should target,
// honoring the single/multi mode switch.
func (c *Config) SelectedServices() []string {
	if c.Search.MultiService && len(c.Search.Services) > 0 {
		return c.Search.Services
	}
	if c.Search.Service != "" {
		return []string{c.Search.Service}
	}
	return nil
}
