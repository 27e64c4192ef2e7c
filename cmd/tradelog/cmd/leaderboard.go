package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard [account...]",
	Short: "Rank accounts by USD-normalized profit",
	Long: `Rank accounts by net profit converted to USD, then by ROI.

With no arguments every account in the journal is ranked.

Example:
  tradelog leaderboard main rupiah-cent`,
	RunE: runLeaderboard,
}

func init() {
	rootCmd.AddCommand(leaderboardCmd)
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	lb, err := a.manager.Leaderboard(cmd.Context(), args...)
	if err != nil {
		return fmt.Errorf("leaderboard: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-4s %-16s %-5s %14s %14s %8s %6s\n", "#", "Account", "Cur", "Net (USD)", "Balance (USD)", "ROI", "Trades")
	for _, r := range lb.Rows {
		fmt.Fprintf(out, "%-4d %-16s %-5s %14s %14s %7.2f%% %6d\n",
			r.Rank, r.Account, r.Currency, r.NetProfitUSD.StringFixed(2), r.BalanceUSD.StringFixed(2), r.ROI, r.Trades)
	}
	fmt.Fprintf(out, "\n%s\n", lb.Disclaimer)
	return nil
}
