package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvTeam        = "ARBBOT_TEAM"
	EnvMode        = "ARBBOT_MODE"
	EnvTest        = "ARBBOT_TEST"
	EnvAddress     = "ARBBOT_ADDRESS"
	EnvReadTimeout = "ARBBOT_READ_TIMEOUT"
	EnvJournalType = "ARBBOT_JOURNAL_TYPE"
	EnvJournalDir  = "ARBBOT_JOURNAL_DIR"
	EnvJournalDB   = "ARBBOT_JOURNAL_DB"
	EnvLogLevel    = "ARBBOT_LOG_LEVEL"
	EnvLogFile     = "ARBBOT_LOG_FILE"
)

// ApplyEnv loads envPath (or ./.env when empty) if it exists, then applies
// any ARBBOT_* variables on top of c.
// Priority: ENV > .env file > config file > defaults
func (c *Config) ApplyEnv(envPath string) {
	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	set := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	set(EnvTeam, &c.Exchange.Team)
	set(EnvMode, &c.Exchange.Mode)
	set(EnvTest, &c.Exchange.Test)
	set(EnvAddress, &c.Exchange.Address)
	set(EnvReadTimeout, &c.Exchange.ReadTimeout)
	set(EnvJournalType, &c.Journal.Type)
	set(EnvJournalDir, &c.Journal.Dir)
	set(EnvJournalDB, &c.Journal.DBPath)
	set(EnvLogLevel, &c.Log.Level)
	set(EnvLogFile, &c.Log.File)

	c.Exchange.Team = strings.ToUpper(c.Exchange.Team)
}

// Load reads path (defaults when empty), applies environment overrides and
// validates the result.
func Load(path, envPath string) (*Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := readFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv(envPath)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
