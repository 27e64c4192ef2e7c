package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradelog/pkg/money"
	"github.com/rustyeddy/tradelog/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show trading statistics",
	Long: `Compute statistics over every trade of the account.

Use --group to break the numbers down by month, instrument, strategy,
hour or type, and --org to print an Org-mode report.

Examples:
  tradelog stats
  tradelog stats --group instrument
  tradelog stats --group month --org > report.org`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var (
	statsGroup string
	statsOrg   bool
)

func init() {
	rootCmd.AddCommand(statsCmd)

	groups := make([]string, 0, len(stats.Groupings))
	for k := range stats.Groupings {
		groups = append(groups, k)
	}
	slices.Sort(groups)

	statsCmd.Flags().StringVarP(&statsGroup, "group", "g", "", "group by: "+strings.Join(groups, ", "))
	statsCmd.Flags().BoolVar(&statsOrg, "org", false, "print an Org-mode report")
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	snap, err := a.account(cmd.Context())
	if err != nil {
		return err
	}

	r, err := stats.NewReport(snap.Account, snap.Entries(), snap.Balance(), statsGroup, time.Now())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if statsOrg {
		return stats.WriteOrg(out, r)
	}
	printStats(out, r)
	return nil
}

func printStats(w io.Writer, r stats.Report) {
	s, cur := r.Stats, r.Balance.Currency

	fmt.Fprintf(w, "Account: %s\n", r.Account)
	fmt.Fprintf(w, "  Balance:       %s -> %s (ROI %.2f%%)\n",
		money.Format(r.Balance.Initial, cur), money.Format(r.Balance.Current, cur), s.ROI)
	fmt.Fprintf(w, "  Trades:        %d (%d win, %d loss, %d break even)\n", s.TotalTrades, s.Wins, s.Losses, s.BreakEven)
	fmt.Fprintf(w, "  Win rate:      %d%%\n", s.WinRate)
	fmt.Fprintf(w, "  Net profit:    %s (avg %s)\n", money.Format(s.NetProfit, cur), money.Format(s.AvgProfit, cur))
	fmt.Fprintf(w, "  Largest:       win %s, loss %s\n", money.Format(s.LargestWin, cur), money.Format(s.LargestLoss, cur))
	fmt.Fprintf(w, "  Pips:          %d (avg %d)\n", s.TotalPips, s.AvgPips)
	fmt.Fprintf(w, "  Profit factor: %s\n", profitFactor(s.ProfitFactor))
	fmt.Fprintf(w, "  Avg R:R:       %.2f\n", s.AvgRiskReward)
	fmt.Fprintf(w, "  Max drawdown:  %.2f%%\n", s.MaxDrawdownPct)
	fmt.Fprintf(w, "  Streaks:       %d wins, %d losses\n", s.MaxConsecutiveWins, s.MaxConsecutiveLosses)

	if len(r.Groups) == 0 {
		return
	}
	fmt.Fprintf(w, "\nBy %s:\n", r.GroupedBy)
	for _, g := range r.Groups {
		fmt.Fprintf(w, "  %-12s %4d trades  win %3d%%  net %14s  pf %s\n",
			g.Key, g.Stats.TotalTrades, g.Stats.WinRate, money.Format(g.Stats.NetProfit, cur), profitFactor(g.Stats.ProfitFactor))
	}
	if best, ok := stats.Best(r.Groups); ok {
		fmt.Fprintf(w, "\nBest %s: %s\n", r.GroupedBy, best.Key)
	}
}

func profitFactor(pf float64) string {
	if pf == stats.ProfitFactorSentinel {
		return "∞"
	}
	return fmt.Sprintf("%.2f", pf)
}
