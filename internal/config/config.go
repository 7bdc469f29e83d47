package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/minibank/internal/bank"
)

// EnvPrefix prefixes the environment variables that override file settings,
// e.g. MINIBANK_BANK_BRANCH or MINIBANK_CHECKING_WITHDRAWAL_LIMIT.
const EnvPrefix = "minibank"

// DefaultFile is the config file name looked up when --config is not given.
const DefaultFile = "minibank.yaml"

// Config represents the top-level minibank.yaml configuration.
type Config struct {
	Bank      BankConfig      `yaml:"bank"`
	Checking  CheckingConfig  `yaml:"checking"`
	Statement StatementConfig `yaml:"statement"`
	Log       LogConfig       `yaml:"log"`
	Audit     AuditConfig     `yaml:"audit"`
}

// BankConfig identifies the bank and its single branch.
type BankConfig struct {
	Name           string `yaml:"name"`
	Branch         string `yaml:"branch"`
	CurrencySymbol string `yaml:"currency_symbol" split_words:"true"`
}

// CheckingConfig holds the withdrawal policy given to new checking accounts.
type CheckingConfig struct {
	WithdrawalLimit decimal.Decimal `yaml:"withdrawal_limit" split_words:"true"`
	MaxWithdrawals  int             `yaml:"max_withdrawals" split_words:"true"`
}

// StatementConfig controls how statements are printed.
type StatementConfig struct {
	TimeFormat string `yaml:"time_format" split_words:"true"` // Go layout
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level string `yaml:"level"`
}

// AuditConfig controls the operation audit log. An empty path disables it.
type AuditConfig struct {
	Path string `yaml:"path"`
}

// Policy returns the withdrawal policy for new checking accounts.
func (c CheckingConfig) Policy() bank.WithdrawalPolicy {
	return bank.WithdrawalPolicy{MaxAmount: c.WithdrawalLimit, MaxCount: c.MaxWithdrawals}
}

var branchPattern = regexp.MustCompile(`^[0-9]{4}$`)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.Bank,
		validation.Field(&c.Bank.Branch, validation.Required, validation.Match(branchPattern).Error("must be 4 digits")),
		validation.Field(&c.Bank.CurrencySymbol, validation.Required),
	); err != nil {
		return fmt.Errorf("bank: %w", err)
	}
	if err := validation.ValidateStruct(&c.Checking,
		validation.Field(&c.Checking.WithdrawalLimit, validation.By(positiveDecimal)),
		validation.Field(&c.Checking.MaxWithdrawals, validation.Min(0)),
	); err != nil {
		return fmt.Errorf("checking: %w", err)
	}
	if err := validation.ValidateStruct(&c.Statement,
		validation.Field(&c.Statement.TimeFormat, validation.Required),
	); err != nil {
		return fmt.Errorf("statement: %w", err)
	}
	if err := validation.ValidateStruct(&c.Log,
		validation.Field(&c.Log.Level, validation.In("debug", "info", "warn", "error")),
	); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

func positiveDecimal(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return errors.New("must be a decimal")
	}
	if !d.IsPositive() {
		return errors.New("must be greater than zero")
	}
	return nil
}

// Load reads a minibank.yaml file from disk on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Resolve builds the effective configuration: defaults, then the file at
// path, then MINIBANK_* environment overrides, then validation.
// When optional is true a missing file is not an error.
func Resolve(path string, optional bool) (*Config, error) {
	cfg, err := Load(path)
	switch {
	case err == nil:
	case optional && errors.Is(err, fs.ErrNotExist):
		cfg = Default()
	default:
		return nil, err
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Marshal renders cfg as minibank.yaml content.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the reference defaults.
func Default() *Config {
	return &Config{
		Bank: BankConfig{
			Name:           "Mini Bank",
			Branch:         bank.DefaultBranch,
			CurrencySymbol: "R$",
		},
		Checking: CheckingConfig{
			WithdrawalLimit: bank.DefaultWithdrawalLimit,
			MaxWithdrawals:  bank.DefaultMaxWithdrawals,
		},
		Statement: StatementConfig{
			TimeFormat: "02/01/2006 15:04:05",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}
