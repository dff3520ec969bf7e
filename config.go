package main

import (
	"fmt"
	"io/ioutil"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dusty-web/server-contract-tests/supervisor"
)

const defaultHost = "127.0.0.1"
const defaultPort = 8080

// duration wraps time.Duration so YAML values can be written as Go duration
// strings ("10s", "100ms").
type duration time.Duration

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = duration(parsed)
	return nil
}

// harnessConfig is the full configuration surface of the harness. It can come
// from a YAML file, from flags, or both; flags take precedence.
type harnessConfig struct {
	Binary         string   `yaml:"binary"`
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	StartupTimeout duration `yaml:"startup_timeout"`
	ShutdownGrace  duration `yaml:"shutdown_grace"`
	PollInterval   duration `yaml:"poll_interval"`
}

// ApplyDefaults fills in zero values with defaults.
func (c *harnessConfig) ApplyDefaults() {
	if c.Host == "" {
		c.Host = defaultHost
	}
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.StartupTimeout == 0 {
		c.StartupTimeout = duration(supervisor.DefaultStartupTimeout)
	}
	if c.ShutdownGrace == 0 {
		c.ShutdownGrace = duration(supervisor.DefaultShutdownGrace)
	}
	if c.PollInterval == 0 {
		c.PollInterval = duration(supervisor.DefaultPollInterval)
	}
}

// Validate returns an error if the configuration is unusable.
func (c *harnessConfig) Validate() error {
	if c.Binary == "" {
		return fmt.Errorf("no server binary configured")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.PollInterval <= 0 || time.Duration(c.PollInterval) >= time.Duration(c.StartupTimeout) {
		return fmt.Errorf("poll interval %s must be shorter than the startup timeout %s",
			time.Duration(c.PollInterval), time.Duration(c.StartupTimeout))
	}
	return nil
}

func loadConfigFile(path string) (harnessConfig, error) {
	var cfg harnessConfig
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	return cfg, nil
}
