package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradelog/journal"
	"github.com/rustyeddy/tradelog/pkg/money"
	"github.com/rustyeddy/tradelog/risk"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Add, edit, remove and list trades",
	Long: `Manage the trades of an account.

Subcommands:
  add   - Record a new trade
  edit  - Change fields of an existing trade
  rm    - Remove a trade
  list  - List every trade with its balance after
  show  - Show a trade as Org-mode

Examples:
  tradelog trade add -i EURUSD -t buy --lot 0.1 --entry 1.0850 --exit 1.0880 -p 30
  tradelog trade edit 01HZX... -p 25
  tradelog trade list --org`,
}

var tradeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new trade",
	Args:  cobra.NoArgs,
	RunE:  runTradeAdd,
}

var tradeEditCmd = &cobra.Command{
	Use:   "edit <trade-id>",
	Short: "Change fields of an existing trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeEdit,
}

var tradeRmCmd = &cobra.Command{
	Use:     "rm <trade-id>",
	Aliases: []string{"delete"},
	Short:   "Remove a trade",
	Args:    cobra.ExactArgs(1),
	RunE:    runTradeRm,
}

var tradeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every trade with its balance after",
	Args:  cobra.NoArgs,
	RunE:  runTradeList,
}

var tradeShowCmd = &cobra.Command{
	Use:   "show <trade-id>",
	Short: "Show a trade as Org-mode",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeShow,
}

var (
	tradeAddFlags  tradeFlags
	tradeEditFlags tradeFlags
	tradeListOrg   bool
)

func init() {
	rootCmd.AddCommand(tradeCmd)
	tradeCmd.AddCommand(tradeAddCmd)
	tradeCmd.AddCommand(tradeEditCmd)
	tradeCmd.AddCommand(tradeRmCmd)
	tradeCmd.AddCommand(tradeListCmd)
	tradeCmd.AddCommand(tradeShowCmd)

	tradeAddFlags.register(tradeAddCmd.Flags())
	tradeAddCmd.MarkFlagRequired("instrument")
	tradeAddCmd.MarkFlagRequired("type")
	tradeAddCmd.MarkFlagRequired("lot")
	tradeAddCmd.MarkFlagRequired("entry")
	tradeAddCmd.MarkFlagRequired("exit")
	tradeAddCmd.MarkFlagRequired("profit")

	tradeEditFlags.register(tradeEditCmd.Flags())

	tradeListCmd.Flags().BoolVar(&tradeListOrg, "org", false, "print as Org-mode")
}

func runTradeAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if _, err := a.account(ctx); err != nil {
		return err
	}

	e, err := tradeAddFlags.apply(cmd.Flags(), journal.TradeEntry{}, true, time.Now())
	if err != nil {
		return err
	}
	stored, err := a.manager.AppendTrade(ctx, a.cfg.Account.ID, e)
	if err != nil {
		return fmt.Errorf("add trade: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Added trade %s\n", stored.ID)
	printTradeLine(out, stored, a.currency(ctx))
	printTradeRisk(out, stored)
	return nil
}

func runTradeEdit(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	snap, err := a.account(ctx)
	if err != nil {
		return err
	}
	cur, err := snap.Entry(args[0])
	if err != nil {
		return err
	}

	e, err := tradeEditFlags.apply(cmd.Flags(), cur, false, time.Now())
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("result") && e.Profit.Cmp(cur.Profit) != 0 {
		// a new profit re-settles the result
		e.Result = journal.Pending
	}
	stored, err := a.manager.EditTrade(ctx, a.cfg.Account.ID, args[0], e)
	if err != nil {
		return fmt.Errorf("edit trade: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Edited trade %s\n", stored.ID)
	printTradeLine(out, stored, a.currency(ctx))
	return nil
}

func runTradeRm(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if _, err := a.account(ctx); err != nil {
		return err
	}
	if err := a.manager.DeleteTrade(ctx, a.cfg.Account.ID, args[0]); err != nil {
		return fmt.Errorf("remove trade: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed trade %s\n", args[0])
	return nil
}

func runTradeList(cmd *cobra.Command, args []string) error {
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
	entries := snap.Entries()
	if tradeListOrg {
		fmt.Fprintln(out, journal.FormatTradesOrg(entries))
		return nil
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No trades.")
		return nil
	}
	cur := snap.Balance().Currency
	for _, e := range entries {
		printTradeLine(out, e, cur)
	}
	return nil
}

func runTradeShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.account(cmd.Context())
	if err != nil {
		return err
	}
	e, err := snap.Entry(args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(e))
	return nil
}

func printTradeLine(w io.Writer, e journal.TradeEntry, currency string) {
	fmt.Fprintf(w, "%s  %s  %-8s %-4s %6s lots  %+5d pips  %12s  %-9s balance %s\n",
		e.ID,
		e.Date.Format(journal.CSVDateLayout),
		e.Instrument,
		e.Type,
		e.Lot.String(),
		e.Pips,
		money.Format(e.Profit, currency),
		e.Result,
		money.Format(e.BalanceAfter, currency),
	)
}

func printTradeRisk(w io.Writer, e journal.TradeEntry) {
	before := e.BalanceAfter.Sub(e.Profit)
	fmt.Fprintf(w, "  %.2f%% of balance", risk.Pct(e.Profit, before))
	if pips, ok := risk.StopPips(e.Instrument, e.EntryPrice, e.StopLoss); ok {
		fmt.Fprintf(w, ", stop %d pips", pips)
	}
	if e.RiskReward.IsPositive() {
		fmt.Fprintf(w, ", R:R %s", e.RiskReward)
	}
	fmt.Fprintln(w)
}
