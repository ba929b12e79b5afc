package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds everything tunable from the YAML file. Flags override
// individual fields after loading.
type Config struct {
	Workers       int                    `yaml:"workers"`
	OutputDir     string                 `yaml:"output_dir"`
	LogLevel      string                 `yaml:"log_level"`
	MinFreeMemory uint64                 `yaml:"min_free_memory_mb"`
	Filters       map[string]interface{} `yaml:"filters"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Workers:       runtime.NumCPU(),
		OutputDir:     ".",
		LogLevel:      "info",
		MinFreeMemory: 256,
		Filters:       map[string]interface{}{},
	}
}

// Load reads a YAML config over the defaults. A missing path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Filters == nil {
		c.Filters = map[string]interface{}{}
	}
	return nil
}

// FilterParams copies the configured filter parameters so commands can layer
// flag overrides without mutating the config.
func (c *Config) FilterParams() map[string]interface{} {
	params := make(map[string]interface{}, len(c.Filters))
	for k, v := range c.Filters {
		params[k] = v
	}
	return params
}
