package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradelog/config"
	"github.com/rustyeddy/tradelog/internal/apperrors"
	"github.com/rustyeddy/tradelog/pkg/money"
	"github.com/rustyeddy/tradelog/target"
)

var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Set, show or disable the profit target",
	Long: `Manage the account's profit target.

A date target aims for a balance by a deadline. A daily target aims for a
percentage of the initial balance every day and never expires.

Examples:
  tradelog target set --mode date --balance 2000000 --date 2024-12-31
  tradelog target set --mode daily --percent 1.5
  tradelog target show
  tradelog target disable`,
}

var targetSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set and enable the target",
	Args:  cobra.NoArgs,
	RunE:  runTargetSet,
}

var targetShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show progress toward the target",
	Args:  cobra.NoArgs,
	RunE:  runTargetShow,
}

var targetDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable the target",
	Args:  cobra.NoArgs,
	RunE:  runTargetDisable,
}

var targetSetFlags config.TargetConfig

var (
	targetBalance string
	targetPercent string
)

func init() {
	rootCmd.AddCommand(targetCmd)
	targetCmd.AddCommand(targetSetCmd)
	targetCmd.AddCommand(targetShowCmd)
	targetCmd.AddCommand(targetDisableCmd)

	f := targetSetCmd.Flags()
	f.StringVarP(&targetSetFlags.Mode, "mode", "m", "date", "date or daily")
	f.StringVar(&targetBalance, "balance", "0", "target balance (date mode)")
	f.StringVar(&targetSetFlags.TargetDate, "date", "", "target date YYYY-MM-DD (date mode)")
	f.StringVar(&targetPercent, "percent", "0", "daily target percentage (daily mode)")
	f.StringVar(&targetSetFlags.Description, "desc", "", "description")
}

func runTargetSet(cmd *cobra.Command, args []string) error {
	tc := targetSetFlags
	tc.Enabled = true
	var err error
	if tc.TargetBalance, err = money.Parse(targetBalance); err != nil {
		return fmt.Errorf("--balance: %w", err)
	}
	if tc.DailyTargetPercentage, err = money.Parse(targetPercent); err != nil {
		return fmt.Errorf("--percent: %w", err)
	}
	cfg, err := tc.Build(time.Now())
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if _, err := a.account(ctx); err != nil {
		return err
	}
	if _, err := a.manager.SetTarget(ctx, a.cfg.Account.ID, cfg); err != nil {
		return fmt.Errorf("set target: %w", err)
	}
	snap, err := a.manager.Snapshot(ctx, a.cfg.Account.ID)
	if err != nil {
		return err
	}
	p, err := snap.Progress(time.Now())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Target set (%s)\n", cfg.Mode)
	printProgress(out, snap.Target, p, snap.Balance().Currency)
	return nil
}

func runTargetShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.account(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	p, err := snap.Progress(time.Now())
	if errors.Is(err, apperrors.ErrTargetDisabled) {
		fmt.Fprintln(out, "No target set.")
		return nil
	}
	if err != nil {
		return err
	}
	printProgress(out, snap.Target, p, snap.Balance().Currency)
	return nil
}

func runTargetDisable(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if _, err := a.account(ctx); err != nil {
		return err
	}
	if err := a.manager.DisableTarget(ctx, a.cfg.Account.ID); err != nil {
		return fmt.Errorf("disable target: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Target disabled")
	return nil
}

func printProgress(w io.Writer, cfg target.Config, p target.Progress, cur string) {
	if cfg.Description != "" {
		fmt.Fprintf(w, "Target: %s\n", cfg.Description)
	}
	fmt.Fprintf(w, "  Mode:      %s (%s)\n", p.Mode, p.State)
	fmt.Fprintf(w, "  Progress:  %.2f%%\n", p.DisplayProgress)
	fmt.Fprintf(w, "  Achieved:  %s of %s\n", money.Format(p.Achieved, cur), money.Format(p.TotalNeeded, cur))
	fmt.Fprintf(w, "  Days:      %d passed", p.DaysPassed)
	if p.Mode == target.DateBased {
		fmt.Fprintf(w, ", %d left (%s)", p.DaysLeft, cfg.TargetDate.Format("2006-01-02"))
	}
	fmt.Fprintln(w)
	if p.Mode == target.DailyPercentage {
		fmt.Fprintf(w, "  Daily:     %s achieved, %s target\n",
			money.Format(p.DailyAchieved, cur), money.Format(p.DailyTargetAmount, cur))
	} else {
		fmt.Fprintf(w, "  Needed:    %s per day\n", money.Format(p.NeededDaily, cur))
	}
	track := "behind"
	if p.OnTrack {
		track = "on track"
	}
	fmt.Fprintf(w, "  Pace:      %s\n", track)
}
