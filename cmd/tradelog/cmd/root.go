package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradelog/account"
	"github.com/rustyeddy/tradelog/config"
	"github.com/rustyeddy/tradelog/internal/apperrors"
	"github.com/rustyeddy/tradelog/journal"
	"github.com/rustyeddy/tradelog/target"
)

var rootCmd = &cobra.Command{
	Use:   "tradelog",
	Short: "A personal trading journal",
	Long: `Tradelog records trades against an account balance and reports on them.

It provides tools for:
  - Logging, editing and removing trades
  - Tracking the balance chain after every trade
  - Win rate, profit factor, drawdown and grouped statistics
  - Date based and daily percentage profit targets
  - CSV and Org-mode export
  - A USD normalized leaderboard across accounts`,
	SilenceUsage: true,
}

var (
	cfgFile   string
	dbPath    string
	accountID string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "tradelog.yaml", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite journal DB (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&accountID, "account", "a", "", "account id (overrides config)")
}

// loadConfig reads the config file. A missing file at the default path
// falls back to the defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadFromFile(cfgFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("config") {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = config.Default()
	}
	if dbPath != "" {
		cfg.Journal.DBPath = dbPath
	}
	if accountID != "" {
		cfg.Account.ID = accountID
	}
	return cfg, nil
}

// app is what a command needs to work on the journal.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *journal.SQLiteStore
	manager *account.Manager
}

func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	store, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		manager: account.NewManager(store, logger),
	}, nil
}

func (a *app) Close() {
	_ = a.logger.Sync()
	a.store.Close()
}

// account opens the configured account, creating it from the config on
// first use.
func (a *app) account(ctx context.Context) (*account.Snapshot, error) {
	id := a.cfg.Account.ID
	snap, err := a.manager.Snapshot(ctx, id)
	if !errors.Is(err, apperrors.ErrAccountNotFound) {
		return snap, err
	}

	// the configured target is checked before anything is written, so a bad
	// target never leaves an account behind without one
	var tc target.Config
	if a.cfg.Target.Enabled {
		now := time.Now()
		if tc, err = a.cfg.Target.Build(now); err != nil {
			return nil, err
		}
		if err := target.Validate(tc, a.cfg.Account.InitialBalance, now); err != nil {
			return nil, fmt.Errorf("target: %w", err)
		}
	}

	snap, err = a.manager.Create(ctx, id, a.cfg.Account.Currency, a.cfg.Account.InitialBalance)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	if a.cfg.Target.Enabled {
		if _, err := a.manager.SetTarget(ctx, id, tc); err != nil {
			return nil, fmt.Errorf("set target: %w", err)
		}
		return a.manager.Snapshot(ctx, id)
	}
	return snap, nil
}

// currency of the configured account, for display.
func (a *app) currency(ctx context.Context) string {
	snap, err := a.manager.Snapshot(ctx, a.cfg.Account.ID)
	if err != nil {
		return a.cfg.Account.Currency
	}
	return snap.Balance().Currency
}
