package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kvit-s/kvit-patch/internal/patch"
)

type Config struct {
	Matching struct {
		MaxScanCost int `yaml:"max_scan_cost"` // work limit for one similarity scan (0 = default)
	} `yaml:"matching"`

	Normalize struct {
		StripLeading    *bool `yaml:"strip_leading"`    // default true
		StripTrailing   *bool `yaml:"strip_trailing"`   // default true
		NormalizeIndent *bool `yaml:"normalize_indent"` // default true
		DropBlankLines  bool  `yaml:"drop_blank_lines"` // default false
	} `yaml:"normalize"`

	Log struct {
		Path        string `yaml:"path"`        // empty disables logging
		Development bool   `yaml:"development"` // debug-level, readable attempt logging
	} `yaml:"log"`
}

// Load reads a YAML config file and applies defaults. A missing file is not
// an error: defaults apply.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyDefaults()
			return &cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Matching.MaxScanCost == 0 {
		c.Matching.MaxScanCost = patch.DefaultMaxScanCost
	}
	t := true
	if c.Normalize.StripLeading == nil {
		c.Normalize.StripLeading = &t
	}
	if c.Normalize.StripTrailing == nil {
		c.Normalize.StripTrailing = &t
	}
	if c.Normalize.NormalizeIndent == nil {
		c.Normalize.NormalizeIndent = &t
	}
}

// Validate checks config consistency.
func (c *Config) Validate() error {
	if c.Matching.MaxScanCost < 0 {
		return fmt.Errorf("matching.max_scan_cost must be >= 0, got %d", c.Matching.MaxScanCost)
	}
	return nil
}

// MatcherOptions converts the normalization section into matcher options.
func (c *Config) MatcherOptions() patch.Options {
	return patch.Options{
		StripLeading:    *c.Normalize.StripLeading,
		StripTrailing:   *c.Normalize.StripTrailing,
		NormalizeIndent: *c.Normalize.NormalizeIndent,
		DropBlankLines:  c.Normalize.DropBlankLines,
	}
}
