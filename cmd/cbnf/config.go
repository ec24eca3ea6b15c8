package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const envConfigPath = "CBNF_CONFIG"

// Config represents the cbnf configuration file (~/.config/cbnf/config.yaml).
// Pointer fields distinguish "not set" from zero values.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Validation and output defaults for inspect/check.
	Validate     *bool  `yaml:"validate"`
	OutputFormat string `yaml:"output_format"`
	Jobs         *int   `yaml:"jobs"`

	// Server
	ServerAddress string `yaml:"server_address"`
	MaxBodyBytes  *int64 `yaml:"max_body_bytes"`
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "cbnf", "config.yaml")
}

// LoadConfig reads the config file at path, or the default location when path
// is empty. A missing file yields a zero Config; a malformed one is an error.
func LoadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// applyLoggingConfig applies config defaults to the global logging flags
// when they were not set explicitly.
func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") && !c.IsSet("debug") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyValidationConfig lets the config turn validation off for inspect/check.
func applyValidationConfig(c *cli.Command, cfg Config, noValidate *bool) {
	if cfg.Validate != nil && !c.IsSet("no-validate") {
		*noValidate = !*cfg.Validate
	}
}

func applyInspectConfig(c *cli.Command, cfg Config, noValidate *bool, format *string) {
	applyValidationConfig(c, cfg, noValidate)
	if cfg.OutputFormat != "" && !c.IsSet("format") {
		*format = cfg.OutputFormat
	}
}

func applyCheckConfig(c *cli.Command, cfg Config, noValidate *bool, jobs *int) {
	applyValidationConfig(c, cfg, noValidate)
	if cfg.Jobs != nil && !c.IsSet("jobs") {
		*jobs = *cfg.Jobs
	}
}

func applyServeConfig(c *cli.Command, cfg Config, addr *string, maxBody *int64) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.MaxBodyBytes != nil && !c.IsSet("max-body") {
		*maxBody = *cfg.MaxBodyBytes
	}
}
