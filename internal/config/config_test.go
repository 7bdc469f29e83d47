package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Bank.Name = "Test Bank"
	cfg.Checking.WithdrawalLimit = decimal.RequireFromString("750.50")
	cfg.Audit.Path = "audit.csv"

	path := filepath.Join(t.TempDir(), "minibank.yaml")
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Bank, got.Bank)
	assert.True(t, cfg.Checking.WithdrawalLimit.Equal(got.Checking.WithdrawalLimit))
	assert.Equal(t, cfg.Checking.MaxWithdrawals, got.Checking.MaxWithdrawals)
	assert.Equal(t, cfg.Statement.TimeFormat, got.Statement.TimeFormat)
	assert.Equal(t, cfg.Log.Level, got.Log.Level)
	assert.Equal(t, "audit.csv", got.Audit.Path)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "0001", cfg.Bank.Branch)
	assert.Equal(t, "R$", cfg.Bank.CurrencySymbol)
	assert.True(t, decimal.NewFromInt(500).Equal(cfg.Checking.WithdrawalLimit))
	assert.Equal(t, 3, cfg.Checking.MaxWithdrawals)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Empty(t, cfg.Audit.Path)
	require.NoError(t, cfg.Validate())

	p := cfg.Checking.Policy()
	assert.Equal(t, 3, p.MaxCount)
	assert.True(t, p.MaxAmount.Equal(decimal.NewFromInt(500)))
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minibank.yaml")
	require.NoError(t, os.WriteFile(path, []byte("checking:\n  max_withdrawals: 5\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Checking.MaxWithdrawals)
	assert.True(t, decimal.NewFromInt(500).Equal(cfg.Checking.WithdrawalLimit))
	assert.Equal(t, "0001", cfg.Bank.Branch)
}

func TestResolveOptionalMissingFile(t *testing.T) {
	cfg, err := Resolve(filepath.Join(t.TempDir(), "missing.yaml"), true)
	require.NoError(t, err)
	assert.Equal(t, Default().Bank, cfg.Bank)

	_, err = Resolve(filepath.Join(t.TempDir(), "missing.yaml"), false)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolveEnvOverrides(t *testing.T) {
	t.Setenv("MINIBANK_BANK_BRANCH", "0042")
	t.Setenv("MINIBANK_CHECKING_WITHDRAWAL_LIMIT", "1000.00")
	t.Setenv("MINIBANK_CHECKING_MAX_WITHDRAWALS", "10")
	t.Setenv("MINIBANK_LOG_LEVEL", "debug")

	cfg, err := Resolve(filepath.Join(t.TempDir(), "missing.yaml"), true)
	require.NoError(t, err)
	assert.Equal(t, "0042", cfg.Bank.Branch)
	assert.True(t, decimal.NewFromInt(1000).Equal(cfg.Checking.WithdrawalLimit))
	assert.Equal(t, 10, cfg.Checking.MaxWithdrawals)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "R$", cfg.Bank.CurrencySymbol)
}

func TestResolveIgnoresUnprefixedEnv(t *testing.T) {
	t.Setenv("NAME", "Other Bank")
	t.Setenv("LEVEL", "debug")
	t.Setenv("BRANCH", "9999")

	cfg, err := Resolve(filepath.Join(t.TempDir(), "missing.yaml"), true)
	require.NoError(t, err)
	assert.Equal(t, "Mini Bank", cfg.Bank.Name)
	assert.Equal(t, "0001", cfg.Bank.Branch)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Empty(t, cfg.Audit.Path)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"short branch", func(c *Config) { c.Bank.Branch = "01" }},
		{"letters in branch", func(c *Config) { c.Bank.Branch = "00a1" }},
		{"no currency", func(c *Config) { c.Bank.CurrencySymbol = "" }},
		{"zero limit", func(c *Config) { c.Checking.WithdrawalLimit = decimal.Zero }},
		{"negative count", func(c *Config) { c.Checking.MaxWithdrawals = -1 }},
		{"no time format", func(c *Config) { c.Statement.TimeFormat = "" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		cfg := Default()
		tt.mutate(cfg)
		assert.Error(t, cfg.Validate(), tt.name)
	}
}

func TestResolveRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minibank.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bank:\n  branch: \"12\"\n"), 0o644))

	_, err := Resolve(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minibank.yaml")
	err := Save(path, Default())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "currency_symbol: R$")
	assert.Contains(t, contents, "max_withdrawals: 3")
	assert.Contains(t, contents, "level: warn")
}
