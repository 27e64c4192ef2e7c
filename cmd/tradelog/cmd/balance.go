package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradelog/pkg/money"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show or reset the account balance",
	Long: `Show the initial and current balance, or reset the initial balance
after a fresh deposit. A reset keeps every trade; the balance chain is
re-derived from the new starting balance.

Examples:
  tradelog balance show
  tradelog balance reset 1000000`,
}

var balanceShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the account balance",
	Args:  cobra.NoArgs,
	RunE:  runBalanceShow,
}

var balanceResetCmd = &cobra.Command{
	Use:   "reset <initial-balance>",
	Short: "Replace the initial balance",
	Args:  cobra.ExactArgs(1),
	RunE:  runBalanceReset,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.AddCommand(balanceShowCmd)
	balanceCmd.AddCommand(balanceResetCmd)
}

func runBalanceShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.account(cmd.Context())
	if err != nil {
		return err
	}
	bal := snap.Balance()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Account: %s (%s)\n", snap.Account, bal.Currency)
	fmt.Fprintf(out, "  Initial: %s\n", money.Format(bal.Initial, bal.Currency))
	fmt.Fprintf(out, "  Current: %s\n", money.Format(bal.Current, bal.Currency))
	fmt.Fprintf(out, "  Gain:    %s\n", money.Format(bal.Gain(), bal.Currency))
	return nil
}

func runBalanceReset(cmd *cobra.Command, args []string) error {
	initial, err := money.Parse(args[0])
	if err != nil {
		return fmt.Errorf("initial balance: %w", err)
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
	bal, err := a.manager.ResetBalance(ctx, a.cfg.Account.ID, initial)
	if err != nil {
		return fmt.Errorf("reset balance: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Initial balance %s, current %s\n",
		money.Format(bal.Initial, bal.Currency), money.Format(bal.Current, bal.Currency))
	return nil
}
