// Package config resolves server and CLI settings from defaults, an optional
// YAML or TOML file, a .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultHost                = "0.0.0.0"
	DefaultPort                = 8787
	DefaultGRPCPort            = 8788
	DefaultHistorySize         = 1000
	DefaultMaxExpressionLength = 4096
)

// Config holds the settings shared by the servers and the CLI.
type Config struct {
	Host                string `yaml:"host" toml:"host"`
	Port                int    `yaml:"port" toml:"port"`
	GRPCPort            int    `yaml:"grpc_port" toml:"grpc_port"`
	HistorySize         int    `yaml:"history_size" toml:"history_size"`
	MaxExpressionLength int    `yaml:"max_expression_length" toml:"max_expression_length"`
	NoColor             bool   `yaml:"no_color" toml:"no_color"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Host:                DefaultHost,
		Port:                DefaultPort,
		GRPCPort:            DefaultGRPCPort,
		HistorySize:         DefaultHistorySize,
		MaxExpressionLength: DefaultMaxExpressionLength,
	}
}

// Load builds a Config: defaults, then the file at path (or $BOOLCALC_CONFIG
// when path is empty), then environment variables. A .env file in the
// working directory is loaded into the environment first.
func Load(path string) (*Config, error) {
	LoadDotEnv(".env")

	cfg := Default()

	if path == "" {
		path = os.Getenv("BOOLCALC_CONFIG")
	}
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads variables from the given .env files without overriding
// variables that are already set. Missing files are skipped.
func LoadDotEnv(paths ...string) {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				log.Printf("Warning: could not load %s: %v", p, err)
			}
		}
	}
}

// LoadFile overlays settings from a .yaml, .yml or .toml file. Keys absent
// from the file keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config file extension %q (want .yaml, .yml or .toml)", ext)
	}
	return nil
}

// ApplyEnv overlays HOST, PORT, GRPC_PORT, HISTORY_SIZE,
// MAX_EXPRESSION_LENGTH and NO_COLOR when they are set.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("HOST"); v != "" {
		c.Host = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"PORT", &c.Port},
		{"GRPC_PORT", &c.GRPCPort},
		{"HISTORY_SIZE", &c.HistorySize},
		{"MAX_EXPRESSION_LENGTH", &c.MaxExpressionLength},
	}
	for _, e := range ints {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", e.key, v, err)
		}
		*e.dst = n
	}

	// https://no-color.org: any non-empty value disables color
	if os.Getenv("NO_COLOR") != "" {
		c.NoColor = true
	}
	return nil
}

// Validate checks ranges.
func (c *Config) Validate() error {
	if err := validatePort("port", c.Port); err != nil {
		return err
	}
	if err := validatePort("grpc_port", c.GRPCPort); err != nil {
		return err
	}
	if c.Port == c.GRPCPort {
		return fmt.Errorf("port and grpc_port must differ (both %d)", c.Port)
	}
	if c.HistorySize < 1 {
		return fmt.Errorf("history_size must be at least 1, got %d", c.HistorySize)
	}
	if c.MaxExpressionLength < 0 {
		return fmt.Errorf("max_expression_length must not be negative, got %d", c.MaxExpressionLength)
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GRPCAddr returns the gRPC listen address.
func (c *Config) GRPCAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.GRPCPort)
}

func validatePort(name string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535, got %d", name, port)
	}
	return nil
}
