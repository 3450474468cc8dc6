package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/arbbot/strategy"
)

// Exchange modes.
const (
	ModeProduction = "production"
	ModeTest       = "test"
	ModeAddress    = "address"
)

const (
	productionHost = "production"
	basePort       = 25000
)

// testPortOffsets maps a test exchange flavour to its port offset.
var testPortOffsets = map[string]int{
	"prod-like": 0,
	"slower":    1,
	"empty":     2,
}

// Config is the complete bot configuration.
type Config struct {
	Exchange ExchangeConfig  `json:"exchange" yaml:"exchange"`
	Strategy strategy.Params `json:"strategy" yaml:"strategy"`
	Journal  JournalConfig   `json:"journal" yaml:"journal"`
	Log      LogConfig       `json:"log" yaml:"log"`
}

// ExchangeConfig selects the exchange and how we talk to it.
type ExchangeConfig struct {
	Team string `json:"team" yaml:"team"`
	// Mode is production, test or address.
	Mode string `json:"mode" yaml:"mode"`
	// Test is the test exchange flavour: prod-like, slower or empty.
	Test string `json:"test,omitempty" yaml:"test,omitempty"`
	// Address is HOST:PORT, used when Mode is address.
	Address     string `json:"address,omitempty" yaml:"address,omitempty"`
	ReadTimeout string `json:"read_timeout,omitempty" yaml:"read_timeout,omitempty"` // e.g. "5s"
	DialTimeout string `json:"dial_timeout,omitempty" yaml:"dial_timeout,omitempty"`
}

// Endpoint is where to connect and whether reads time out.
type Endpoint struct {
	Host          string
	Port          int
	SocketTimeout bool
}

func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type   string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	Dir    string `json:"dir,omitempty" yaml:"dir,omitempty"`
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
	File  string `json:"file,omitempty" yaml:"file,omitempty"`
}

// Endpoint resolves the exchange address. The empty test exchange is quiet
// for long stretches, so it runs without a socket timeout.
func (c ExchangeConfig) Endpoint() (Endpoint, error) {
	switch c.Mode {
	case ModeProduction:
		return Endpoint{Host: productionHost, Port: basePort, SocketTimeout: true}, nil

	case ModeTest:
		offset, ok := testPortOffsets[c.Test]
		if !ok {
			return Endpoint{}, fmt.Errorf("unknown test exchange %q (prod-like, slower, empty)", c.Test)
		}
		return Endpoint{
			Host:          "test-exch-" + c.Team,
			Port:          basePort + offset,
			SocketTimeout: c.Test != "empty",
		}, nil

	case ModeAddress:
		host, port, err := net.SplitHostPort(c.Address)
		if err != nil {
			return Endpoint{}, fmt.Errorf("exchange.address: %w", err)
		}
		p, err := strconv.Atoi(port)
		if err != nil || p <= 0 || p > 65535 {
			return Endpoint{}, fmt.Errorf("exchange.address: invalid port %q", port)
		}
		return Endpoint{Host: host, Port: p, SocketTimeout: true}, nil
	}
	return Endpoint{}, fmt.Errorf("exchange.mode must be production, test or address")
}

// ParseReadTimeout converts the read timeout string to time.Duration. Empty
// means the session default.
func (c ExchangeConfig) ParseReadTimeout() (time.Duration, error) {
	return parseDuration(c.ReadTimeout)
}

func (c ExchangeConfig) ParseDialTimeout() (time.Duration, error) {
	return parseDuration(c.DialTimeout)
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// LoadFromFile loads configuration from a file (JSON or YAML)
func LoadFromFile(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Unset keys keep their defaults.
	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Exchange.Team == "" {
		return fmt.Errorf("exchange.team is required")
	}
	if _, err := c.Exchange.Endpoint(); err != nil {
		return err
	}
	if d, err := c.Exchange.ParseReadTimeout(); err != nil || d < 0 {
		return fmt.Errorf("exchange.read_timeout must be a non-negative duration")
	}
	if d, err := c.Exchange.ParseDialTimeout(); err != nil || d < 0 {
		return fmt.Errorf("exchange.dial_timeout must be a non-negative duration")
	}
	if err := c.Strategy.Validate(); err != nil {
		return fmt.Errorf("strategy: %w", err)
	}
	switch c.Journal.Type {
	case "none", "":
	case "csv":
		if c.Journal.Dir == "" {
			return fmt.Errorf("journal dir required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Exchange: ExchangeConfig{
			Team:        "ARBBOT",
			Mode:        ModeTest,
			Test:        "prod-like",
			ReadTimeout: "5s",
			DialTimeout: "10s",
		},
		Strategy: strategy.DefaultParams(),
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./arbbot.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
