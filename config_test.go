package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"port too low", func(c *Config) { c.port = 0 }, "invalid port"},
		{"port too high", func(c *Config) { c.port = 70000 }, "invalid port"},
		{"cert without key", func(c *Config) { c.tlsCert = "cert.pem" }, "--tls-cert and --tls-key"},
		{"no symbols", func(c *Config) { c.symbols = nil }, "invalid --symbols"},
		{"duplicate symbols", func(c *Config) { c.symbols = []string{"A", " A"} }, "duplicate symbol"},
		{"blank symbol", func(c *Config) { c.symbols = []string{"A", " "} }, "empty symbol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigScheme(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, "http", cfg.scheme())

	cfg.tlsCert, cfg.tlsKey = "cert.pem", "key.pem"
	assert.Equal(t, "https", cfg.scheme())
}

func TestCmdDefaults(t *testing.T) {
	cfg := &Config{}
	newCmd(cfg)

	assert.Equal(t, "0.0.0.0", cfg.bind)
	assert.Equal(t, 8080, cfg.port)
	assert.Equal(t, defaultSymbols(), cfg.symbols)
	assert.Equal(t, []string{"*"}, cfg.corsOrigins)
	assert.Zero(t, cfg.seed)
	assert.False(t, cfg.forbidSelfMatch)
	assert.NoError(t, cfg.validate())
}

func TestCmdReadsEnvironment(t *testing.T) {
	t.Setenv("MEMORYFLIP_PORT", "9090")
	t.Setenv("MEMORYFLIP_SYMBOLS", "X,Y,Z")
	t.Setenv("MEMORYFLIP_SEED", "7")
	t.Setenv("MEMORYFLIP_FORBID_SELF_MATCH", "true")

	cfg := &Config{}
	newCmd(cfg)

	assert.Equal(t, 9090, cfg.port)
	assert.Equal(t, []string{"X", "Y", "Z"}, cfg.symbols)
	assert.Equal(t, uint64(7), cfg.seed)
	assert.True(t, cfg.forbidSelfMatch)
}

func TestCmdFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("MEMORYFLIP_PORT", "9090")

	cfg := &Config{}
	cmd := newCmd(cfg)

	require.NoError(t, cmd.ParseFlags([]string{"--port", "7070", "--symbols", "A,B"}))

	assert.Equal(t, 7070, cfg.port)
	assert.Equal(t, []string{"A", "B"}, cfg.symbols)
}
