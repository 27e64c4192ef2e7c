package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradelog/journal"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export trades",
	Long: `Export every trade of the account.

Subcommands:
  csv  - Quoted CSV with the balance after each trade
  org  - Org-mode, one heading per trade

Examples:
  tradelog export csv -o trades.csv
  tradelog export org -o trades.org`,
}

var exportCSVCmd = &cobra.Command{
	Use:   "csv",
	Short: "Export trades as CSV",
	Args:  cobra.NoArgs,
	RunE:  runExportCSV,
}

var exportOrgCmd = &cobra.Command{
	Use:   "org",
	Short: "Export trades as Org-mode",
	Args:  cobra.NoArgs,
	RunE:  runExportOrg,
}

var exportOutput string

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportCSVCmd)
	exportCmd.AddCommand(exportOrgCmd)

	exportCmd.PersistentFlags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
}

func exportEntries(cmd *cobra.Command) ([]journal.TradeEntry, error) {
	a, err := openApp(cmd)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	snap, err := a.account(cmd.Context())
	if err != nil {
		return nil, err
	}
	return snap.Entries(), nil
}

func runExportCSV(cmd *cobra.Command, args []string) error {
	entries, err := exportEntries(cmd)
	if err != nil {
		return err
	}
	if exportOutput == "" {
		return journal.WriteCSV(cmd.OutOrStdout(), entries)
	}
	if err := journal.ExportCSV(exportOutput, entries); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d trades to %s\n", len(entries), exportOutput)
	return nil
}

func runExportOrg(cmd *cobra.Command, args []string) error {
	entries, err := exportEntries(cmd)
	if err != nil {
		return err
	}
	doc := journal.FormatTradesOrg(entries)
	if exportOutput == "" {
		fmt.Fprintln(cmd.OutOrStdout(), doc)
		return nil
	}
	if err := os.WriteFile(exportOutput, []byte(doc), 0644); err != nil {
		return fmt.Errorf("export org: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d trades to %s\n", len(entries), exportOutput)
	return nil
}
