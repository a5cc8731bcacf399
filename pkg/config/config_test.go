package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"HOST", "PORT", "GRPC_PORT", "HISTORY_SIZE", "MAX_EXPRESSION_LENGTH", "NO_COLOR", "BOOLCALC_CONFIG"} {
		t.Setenv(key, "")
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "0.0.0.0:8787", cfg.Addr())
	assert.Equal(t, "0.0.0.0:8788", cfg.GRPCAddr())
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "boolcalc.yaml", "port: 9000\nhistory_size: 5\nno_color: true\n")

	cfg := Default()
	require.NoError(t, cfg.LoadFile(path))
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 5, cfg.HistorySize)
	assert.True(t, cfg.NoColor)
	assert.Equal(t, DefaultGRPCPort, cfg.GRPCPort, "unset keys keep their value")
}

func TestLoadFileTOML(t *testing.T) {
	path := writeFile(t, "boolcalc.toml", "host = \"127.0.0.1\"\ngrpc_port = 9100\nmax_expression_length = 64\n")

	cfg := Default()
	require.NoError(t, cfg.LoadFile(path))
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 9100, cfg.GRPCPort)
	assert.Equal(t, 64, cfg.MaxExpressionLength)
}

func TestLoadFileErrors(t *testing.T) {
	cfg := Default()
	assert.ErrorContains(t, cfg.LoadFile(writeFile(t, "c.json", "{}")), "unsupported config file extension")
	assert.ErrorContains(t, cfg.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")), "reading config file")
	assert.ErrorContains(t, cfg.LoadFile(writeFile(t, "bad.yaml", "port: [")), "parsing")
}

func TestApplyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOST", "localhost")
	t.Setenv("PORT", "8000")
	t.Setenv("NO_COLOR", "1")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "localhost:8000", cfg.Addr())
	assert.True(t, cfg.NoColor)

	t.Setenv("GRPC_PORT", "nope")
	assert.ErrorContains(t, cfg.ApplyEnv(), "invalid GRPC_PORT")
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "boolcalc.yaml", "port: 9000\ngrpc_port: 9001\n")
	t.Setenv("PORT", "9500")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9500, cfg.Port, "env overrides file")
	assert.Equal(t, 9001, cfg.GRPCPort, "file overrides default")
}

func TestLoadFromEnvPath(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOOLCALC_CONFIG", writeFile(t, "c.yml", "history_size: 3\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.HistorySize)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port range", func(c *Config) { c.Port = 0 }, "port must be between"},
		{"grpc range", func(c *Config) { c.GRPCPort = 70000 }, "grpc_port must be between"},
		{"same ports", func(c *Config) { c.GRPCPort = c.Port }, "must differ"},
		{"history", func(c *Config) { c.HistorySize = 0 }, "history_size"},
		{"max length", func(c *Config) { c.MaxExpressionLength = -1 }, "max_expression_length"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides a variable that is set, even to "".
	require.NoError(t, os.Unsetenv("HISTORY_SIZE"))
	path := writeFile(t, ".env", "HISTORY_SIZE=7\n")

	LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env"))
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, 7, cfg.HistorySize)
}
