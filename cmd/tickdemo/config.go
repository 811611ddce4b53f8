package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config configures the tick and fetch demo commands. It is loaded from a
// YAML file so tick pacing and retry policy can be tuned without a rebuild.
type Config struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	MaxTicks     int           `yaml:"max_ticks"`
	FetchRetries int           `yaml:"fetch_retries"`
}

func defaultConfig() Config {
	return Config{
		TickInterval: 500 * time.Millisecond,
		MaxTicks:     6,
		FetchRetries: 5,
	}
}

// loadConfig reads path if non-empty, overlaying it onto defaultConfig.
// A missing path is not an error: the demo runs fine on defaults alone.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("tickdemo: read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("tickdemo: parse config: %w", err)
	}
	return cfg, nil
}
