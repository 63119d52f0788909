// Package config loads the service configuration: a YAML file naming the
// mode bundles plus planner tunables, with the realtime API key taken from
// the environment.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// APIKeyEnv names the environment variable carrying the realtime feed key.
// It is required only when a request asks for realtime data; without it the
// overlay is disabled gracefully.
const APIKeyEnv = "PTV_API_KEY"

// ModeConfig names one GTFS bundle to load and, optionally, its trip-update
// feed endpoint.
type ModeConfig struct {
	Tag            string `yaml:"tag" validate:"required"`
	Path           string `yaml:"path" validate:"required"`
	TripUpdatesURL string `yaml:"trip_updates_url"`
}

// Config is the full recognised option set.
type Config struct {
	Modes []ModeConfig `yaml:"modes" validate:"required,min=1,dive"`

	MinTransferSecs      int `yaml:"min_transfer_secs" validate:"gte=0,lte=3600"`
	MaxNextDaySearch     int `yaml:"max_next_day_search" validate:"gte=0,lte=31"`
	FuzzyMinScore        int `yaml:"fuzzy_min_score" validate:"gte=0,lte=100"`
	RealtimeCacheTTLSecs int `yaml:"realtime_cache_ttl_secs" validate:"gte=0,lte=60"`
	RequestTimeoutSecs   int `yaml:"request_timeout_secs" validate:"gte=0,lte=120"`

	// APIKey comes from the environment, never the file.
	APIKey string `yaml:"-"`
}

// Defaults mirrored by the planner and dispatcher packages.
const (
	DefaultMinTransferSecs      = 120
	DefaultMaxNextDaySearch     = 7
	DefaultFuzzyMinScore        = 60
	DefaultRealtimeCacheTTLSecs = 60
	DefaultRequestTimeoutSecs   = 10
)

// Load reads the YAML config at path, fills defaults, validates, and pulls
// the API key from the environment. A .env file is honoured when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &Config{
		MinTransferSecs:      DefaultMinTransferSecs,
		MaxNextDaySearch:     DefaultMaxNextDaySearch,
		FuzzyMinScore:        DefaultFuzzyMinScore,
		RealtimeCacheTTLSecs: DefaultRealtimeCacheTTLSecs,
		RequestTimeoutSecs:   DefaultRequestTimeoutSecs,
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	// Duplicate tags are legal: a mode may be assembled from several
	// bundles, merged by the catalogue.

	cfg.APIKey = os.Getenv(APIKeyEnv)
	return cfg, nil
}

// TripUpdateURLs collects the configured realtime endpoints keyed by mode.
func (c *Config) TripUpdateURLs() map[string]string {
	urls := make(map[string]string)
	for _, m := range c.Modes {
		if m.TripUpdatesURL != "" {
			urls[m.Tag] = m.TripUpdatesURL
		}
	}
	return urls
}
