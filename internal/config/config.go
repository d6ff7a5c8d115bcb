package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the run configuration. Command line flags override it.
type Config struct {
	TablesDir        string   `yaml:"tables_dir"` // empty = embedded tables
	LivePriceDB      string   `yaml:"live_price_db"`
	PreferLivePrices bool     `yaml:"prefer_live_prices"`
	Variants         []string `yaml:"variants"`
	OutputDir        string   `yaml:"output_dir"`
	MetricsTextfile  string   `yaml:"metrics_textfile"`
}

func Default() Config {
	return Config{Variants: []string{"sap"}}
}

// Load reads a YAML file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.PreferLivePrices && cfg.LivePriceDB == "" {
		return cfg, fmt.Errorf("%s: prefer_live_prices needs live_price_db", path)
	}
	return cfg, nil
}
