package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, ModeTest, cfg.Exchange.Mode)
	assert.Equal(t, "prod-like", cfg.Exchange.Test)
	assert.Equal(t, int64(1000), cfg.Strategy.BondFair)
	assert.NoError(t, cfg.Validate())
}

func TestEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ExchangeConfig
		want    Endpoint
		wantErr bool
	}{
		{
			name: "production",
			cfg:  ExchangeConfig{Team: "PRINSEPSTREET", Mode: ModeProduction},
			want: Endpoint{Host: "production", Port: 25000, SocketTimeout: true},
		},
		{
			name: "test prod-like",
			cfg:  ExchangeConfig{Team: "PRINSEPSTREET", Mode: ModeTest, Test: "prod-like"},
			want: Endpoint{Host: "test-exch-PRINSEPSTREET", Port: 25000, SocketTimeout: true},
		},
		{
			name: "test slower",
			cfg:  ExchangeConfig{Team: "T", Mode: ModeTest, Test: "slower"},
			want: Endpoint{Host: "test-exch-T", Port: 25001, SocketTimeout: true},
		},
		{
			name: "test empty has no socket timeout",
			cfg:  ExchangeConfig{Team: "T", Mode: ModeTest, Test: "empty"},
			want: Endpoint{Host: "test-exch-T", Port: 25002, SocketTimeout: false},
		},
		{
			name: "specific address",
			cfg:  ExchangeConfig{Team: "T", Mode: ModeAddress, Address: "127.0.0.1:9000"},
			want: Endpoint{Host: "127.0.0.1", Port: 9000, SocketTimeout: true},
		},
		{
			name:    "unknown test flavour",
			cfg:     ExchangeConfig{Team: "T", Mode: ModeTest, Test: "fast"},
			wantErr: true,
		},
		{
			name:    "address without port",
			cfg:     ExchangeConfig{Team: "T", Mode: ModeAddress, Address: "localhost"},
			wantErr: true,
		},
		{
			name:    "bad port",
			cfg:     ExchangeConfig{Team: "T", Mode: ModeAddress, Address: "localhost:http"},
			wantErr: true,
		},
		{
			name:    "unknown mode",
			cfg:     ExchangeConfig{Team: "T", Mode: "staging"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.Endpoint()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "test-exch-T:25002", Endpoint{Host: "test-exch-T", Port: 25002}.Addr())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "missing team",
			mutate:  func(c *Config) { c.Exchange.Team = "" },
			wantErr: true,
			errMsg:  "exchange.team is required",
		},
		{
			name:    "bad read timeout",
			mutate:  func(c *Config) { c.Exchange.ReadTimeout = "soon" },
			wantErr: true,
			errMsg:  "exchange.read_timeout",
		},
		{
			name:    "bad strategy",
			mutate:  func(c *Config) { c.Strategy.BondMaxOpen = 0 },
			wantErr: true,
			errMsg:  "strategy: bond_max_open",
		},
		{
			name:    "unknown journal",
			mutate:  func(c *Config) { c.Journal.Type = "postgres" },
			wantErr: true,
			errMsg:  "journal.type",
		},
		{
			name:    "csv without dir",
			mutate:  func(c *Config) { c.Journal = JournalConfig{Type: "csv"} },
			wantErr: true,
			errMsg:  "journal dir required",
		},
		{
			name:    "sqlite without path",
			mutate:  func(c *Config) { c.Journal = JournalConfig{Type: "sqlite"} },
			wantErr: true,
			errMsg:  "journal db_path required",
		},
		{
			name:   "journal disabled",
			mutate: func(c *Config) { c.Journal = JournalConfig{Type: "none"} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Exchange.Team = "PRINSEPSTREET"
			cfg.Strategy.PairEdge = 4
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arbbot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("exchange:\n  team: prinsepstreet\n  mode: production\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ModeProduction, cfg.Exchange.Mode)
	assert.Equal(t, Default().Strategy, cfg.Strategy)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadAppliesEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("ARBBOT_MODE=address\nARBBOT_ADDRESS=10.0.0.5:25000\n"), 0644))
	// godotenv writes straight into the process environment.
	t.Cleanup(func() {
		os.Unsetenv(EnvMode)
		os.Unsetenv(EnvAddress)
	})

	t.Setenv(EnvTeam, "prinsepstreet")
	t.Setenv(EnvLogLevel, "debug")
	// Real environment wins over the .env file.
	t.Setenv(EnvAddress, "10.0.0.6:25001")

	cfg, err := Load("", envPath)
	require.NoError(t, err)
	assert.Equal(t, "PRINSEPSTREET", cfg.Exchange.Team)
	assert.Equal(t, ModeAddress, cfg.Exchange.Mode)
	assert.Equal(t, "10.0.0.6:25001", cfg.Exchange.Address)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadValidatesAfterEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arbbot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("exchange:\n  team: \"\"\n"), 0644))

	_, err := LoadFromFile(path)
	require.Error(t, err)

	t.Setenv(EnvTeam, "late")
	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "LATE", cfg.Exchange.Team)
}
