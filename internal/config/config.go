// Package config provides YAML-based configuration loading for Stagecraft.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/zulandar/stagecraft/internal/stage"
	"gopkg.in/yaml.v3"
)

// Config is the top-level Stagecraft configuration, loaded from
// stagecraft.yaml.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Server     ServerConfig     `yaml:"server"`
	Sweep      SweepConfig      `yaml:"sweep"`
	Governance GovernanceConfig `yaml:"governance"`
}

// DatabaseConfig holds connection settings. Driver is "sqlite" (Path) or
// "mysql" (Host/Port/Name/User).
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	Name   string `yaml:"name"`
	User   string `yaml:"user"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// SweepConfig schedules the overdue-stage scan as a 5-field cron expression.
type SweepConfig struct {
	Schedule string `yaml:"schedule"`
}

// GovernanceConfig optionally overrides the stock policy ceilings. Zero
// values keep the defaults.
type GovernanceConfig struct {
	TransitionCeiling int `yaml:"transition_ceiling"`
	RegressionCeiling int `yaml:"regression_ceiling"`
	MinReasonLength   int `yaml:"min_reason_length"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Policy builds the governance policy: the stock tables with any configured
// ceiling overrides applied.
func (c *Config) Policy() *stage.Policy {
	p := stage.DefaultPolicy()
	if c.Governance.TransitionCeiling > 0 {
		p.TransitionCeiling = c.Governance.TransitionCeiling
	}
	if c.Governance.RegressionCeiling > 0 {
		p.RegressionCeiling = c.Governance.RegressionCeiling
	}
	if c.Governance.MinReasonLength > 0 {
		p.MinReasonLength = c.Governance.MinReasonLength
	}
	return p
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Path == "" {
		c.Database.Path = "stagecraft.db"
	}
	if c.Database.Host == "" {
		c.Database.Host = "127.0.0.1"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Database.Name == "" {
		c.Database.Name = "stagecraft"
	}
	if c.Database.User == "" {
		c.Database.User = "root"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Sweep.Schedule == "" {
		c.Sweep.Schedule = "0 9 * * *"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Sprintf("database.driver must be sqlite or mysql, got %q", c.Database.Driver))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Governance.TransitionCeiling < 0 {
		errs = append(errs, "governance.transition_ceiling must not be negative")
	}
	if c.Governance.RegressionCeiling < 0 {
		errs = append(errs, "governance.regression_ceiling must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
