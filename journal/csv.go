package journal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CSVHeader is the fixed column order of a trade export.
var CSVHeader = []string{
	"Date", "Instrument", "Type", "Lot Size", "Entry Price", "Exit Price",
	"Stop Loss", "Take Profit", "Pips", "Profit/Loss", "Balance After",
	"Result", "Risk/Reward", "Strategy", "Market Condition",
	"Emotion Before", "Emotion After", "Notes",
}

// CSVDateLayout is how trade dates are written.
const CSVDateLayout = "2006-01-02 15:04"

// WriteCSV writes a header row followed by one row per entry. Every cell is
// double-quoted, embedded quotes are doubled.
func WriteCSV(w io.Writer, entries []TradeEntry) error {
	bw := bufio.NewWriter(w)
	if err := writeRow(bw, CSVHeader); err != nil {
		return err
	}
	for _, e := range entries {
		if err := writeRow(bw, csvRecord(e)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ExportCSV writes entries to path.
func ExportCSV(path string, entries []TradeEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, entries); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func csvRecord(e TradeEntry) []string {
	return []string{
		e.Date.Format(CSVDateLayout),
		e.Instrument,
		e.Type.String(),
		num(e.Lot),
		num(e.EntryPrice),
		num(e.ExitPrice),
		num(e.StopLoss),
		num(e.TakeProfit),
		strconv.Itoa(e.Pips),
		num(e.Profit),
		num(e.BalanceAfter),
		e.Result.String(),
		num(e.RiskReward),
		e.Strategy,
		e.Market,
		e.EmotionBefore,
		e.EmotionAfter,
		e.Notes,
	}
}

func writeRow(w *bufio.Writer, cells []string) error {
	for i, c := range cells {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(`"` + strings.ReplaceAll(c, `"`, `""`) + `"`); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\n")
	return err
}

func num(d decimal.Decimal) string {
	return d.String()
}
