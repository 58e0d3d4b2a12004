// Package config handles conversion settings loading and defaults.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config describes how nested export records are flattened into CSV columns.
type Config struct {
	Rename         RenameTable `yaml:"rename,omitempty"`
	Groups         []string    `yaml:"groups,omitempty"`
	TimePeriodKey  string      `yaml:"time_period_key,omitempty"`
	Prefix         string      `yaml:"prefix,omitempty"`
	GeometryColumn string      `yaml:"geometry_column,omitempty"`
}

var (
	ErrNoGroups        = errors.New("at least one group is required")
	ErrDuplicateGroup  = errors.New("duplicate group")
	ErrEmptyPrefix     = errors.New("prefix must not be empty")
	ErrEmptyTimePeriod = errors.New("time_period_key must not be empty")
	ErrEmptyGeometry   = errors.New("geometry_column must not be empty")
)

// Default returns the settings used for M-Lab district statistics exports.
func Default() Config {
	return Config{
		Rename: NewRenameTable(map[string]string{
			"district_geom":   "WKT",
			"dl_ip_count":     "dl_count_ips",
			"ul_ip_count":     "ul_count_ips",
			"dl_test_count":   "dl_count_tests",
			"ul_test_count":   "ul_count_tests",
			"dl_tx_Mbps":      "download_Mbps",
			"ul_tx_Mbps":      "upload_Mbps",
			"dl_min_rtt":      "min_rtt",
			"legal_area_name": "name",
			"geo_id":          "GEOID",
		}),
		Groups:         []string{"dl", "ul", "slice"},
		TimePeriodKey:  "time_period",
		Prefix:         "ml",
		GeometryColumn: "WKT",
	}
}

// Load reads YAML settings from path on top of Default.
// An empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	log.Debug().
		Str("path", path).
		Int("renames", cfg.Rename.Len()).
		Strs("groups", cfg.Groups).
		Msg("Configuration loaded")

	return cfg, nil
}

// Validate checks that the settings can produce well formed column names.
func (c Config) Validate() error {
	if len(c.Groups) == 0 {
		return ErrNoGroups
	}

	seen := make(map[string]bool, len(c.Groups))
	for _, g := range c.Groups {
		if seen[g] {
			return fmt.Errorf("%w: %q", ErrDuplicateGroup, g)
		}
		seen[g] = true
	}

	switch {
	case c.Prefix == "":
		return ErrEmptyPrefix
	case c.TimePeriodKey == "":
		return ErrEmptyTimePeriod
	case c.GeometryColumn == "":
		return ErrEmptyGeometry
	}

	return c.Rename.validate()
}
