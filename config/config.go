package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradelog/market"
	"github.com/rustyeddy/tradelog/pkg/money"
	"github.com/rustyeddy/tradelog/target"
)

// Config is the tradelog configuration file.
type Config struct {
	Account AccountConfig `json:"account" yaml:"account"`
	Target  TargetConfig  `json:"target" yaml:"target"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// AccountConfig names the default account and how it is opened.
type AccountConfig struct {
	ID             string          `json:"id" yaml:"id"`
	Currency       string          `json:"currency" yaml:"currency"`
	InitialBalance decimal.Decimal `json:"initial_balance" yaml:"initial_balance"`
}

// TargetConfig is an optional target applied when the account is created.
type TargetConfig struct {
	Enabled               bool            `json:"enabled" yaml:"enabled"`
	Mode                  string          `json:"mode,omitempty" yaml:"mode,omitempty"` // "date" or "daily"
	TargetBalance         decimal.Decimal `json:"target_balance" yaml:"target_balance"`
	DailyTargetPercentage decimal.Decimal `json:"daily_target_percentage" yaml:"daily_target_percentage"`
	TargetDate            string          `json:"target_date,omitempty" yaml:"target_date,omitempty"` // YYYY-MM-DD
	Description           string          `json:"description,omitempty" yaml:"description,omitempty"`
}

// JournalConfig locates the SQLite journal.
type JournalConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// LogConfig selects the zap logger.
type LogConfig struct {
	Level       string `json:"level" yaml:"level"`
	Development bool   `json:"development" yaml:"development"`
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and JSON otherwise.
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

// Validate checks if the configuration is valid. The target date is not
// checked against the clock here; that happens when the target is applied.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Account.ID) == "" {
		return fmt.Errorf("account.id is required")
	}
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if !money.KnownCurrency(c.Account.Currency) && !market.KnownRate(c.Account.Currency) {
		return fmt.Errorf("unknown currency: %s", c.Account.Currency)
	}
	if !c.Account.InitialBalance.IsPositive() {
		return fmt.Errorf("account.initial_balance must be positive")
	}
	if c.Target.Enabled {
		tc, err := c.Target.Build(time.Now())
		if err != nil {
			return err
		}
		if tc.Mode == target.DateBased && !tc.TargetBalance.GreaterThan(c.Account.InitialBalance) {
			return fmt.Errorf("target.target_balance must be greater than account.initial_balance")
		}
	}
	if c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path is required")
	}
	if _, err := zapcore.ParseLevel(c.levelOrDefault()); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// Build converts the file form into a target configuration starting at now.
func (t TargetConfig) Build(now time.Time) (target.Config, error) {
	mode, err := target.ParseMode(t.Mode)
	if err != nil {
		return target.Config{}, fmt.Errorf("target.mode: %w", err)
	}
	cfg := target.Config{
		Enabled:               t.Enabled,
		Mode:                  mode,
		TargetBalance:         t.TargetBalance,
		DailyTargetPercentage: t.DailyTargetPercentage,
		Description:           t.Description,
		StartDate:             now,
	}
	if mode == target.DateBased {
		if t.TargetDate == "" {
			return target.Config{}, fmt.Errorf("target.target_date is required for date targets")
		}
		d, err := time.ParseInLocation("2006-01-02", t.TargetDate, now.Location())
		if err != nil {
			return target.Config{}, fmt.Errorf("target.target_date: %w", err)
		}
		// the whole target day counts
		cfg.TargetDate = d.Add(target.Day - time.Second)
	}
	return cfg, nil
}

func (c *Config) levelOrDefault() string {
	if c.Log.Level == "" {
		return "info"
	}
	return c.Log.Level
}

// Logger builds the zap logger described by the log section.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.levelOrDefault())
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:             "main",
			Currency:       "USD",
			InitialBalance: decimal.NewFromInt(10000),
		},
		Target: TargetConfig{
			Enabled:               false,
			Mode:                  "daily",
			DailyTargetPercentage: decimal.NewFromInt(1),
		},
		Journal: JournalConfig{
			DBPath: "./tradelog.sqlite",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
