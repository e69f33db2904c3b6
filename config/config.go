// Package config loads the optional YAML configuration file for the harness.
// Everything in the file can also be supplied as a command line flag; flags
// win when both are present.
package config

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultServiceURL        = "http://localhost:4567"
	DefaultProbeTimeoutSec   = 10
	DefaultRequestTimeoutSec = 10
)

type Config struct {
	ServiceURL        string   `yaml:"service_url"`         // Base URL of the Todo service under test
	ProbeTimeoutSec   int      `yaml:"probe_timeout_sec"`   // How long to wait for the service at startup
	RequestTimeoutSec int      `yaml:"request_timeout_sec"` // Per-request HTTP timeout
	Run               []string `yaml:"run"`                 // Regex patterns selecting tests to run
	Skip              []string `yaml:"skip"`                // Regex patterns selecting tests to skip
	Debug             bool     `yaml:"debug"`               // Dump captured debug output for failed tests
	DebugAll          bool     `yaml:"debug_all"`           // Dump captured debug output for all tests
}

func Default() Config {
	return Config{
		ServiceURL:        DefaultServiceURL,
		ProbeTimeoutSec:   DefaultProbeTimeoutSec,
		RequestTimeoutSec: DefaultRequestTimeoutSec,
	}
}

// Load reads a YAML config file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	u, err := url.Parse(c.ServiceURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("service_url %q is not an absolute URL", c.ServiceURL)
	}
	if c.ProbeTimeoutSec <= 0 {
		return fmt.Errorf("probe_timeout_sec must be positive, got %d", c.ProbeTimeoutSec)
	}
	if c.RequestTimeoutSec <= 0 {
		return fmt.Errorf("request_timeout_sec must be positive, got %d", c.RequestTimeoutSec)
	}
	return nil
}
