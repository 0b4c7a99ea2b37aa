// Package config loads and saves the easytax.yaml file at the ledger root.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level easytax.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Import   ImportConfig   `yaml:"import"`
	Git      GitConfig      `yaml:"git"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name string `yaml:"name"`
	ABN  string `yaml:"abn,omitempty"`
}

// ImportConfig sets the defaults for import runs; flags override per run.
type ImportConfig struct {
	MatchThreshold float64 `yaml:"match_threshold"`
	SkipDuplicates bool    `yaml:"skip_duplicates"`
}

// GitConfig controls git integration for the ledger directory.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads an easytax.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger.
func Default(businessName, abn string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name: businessName,
			ABN:  abn,
		},
		Import: ImportConfig{
			MatchThreshold: 0.6,
			SkipDuplicates: true,
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "EasyTax",
			AuthorEmail: "ledger@easytax.local",
		},
	}
}
