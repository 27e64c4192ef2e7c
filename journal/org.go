package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatTradeOrg renders a trade as an Org-mode heading with its facts in a
// PROPERTIES drawer and the journal fields as sub-headings.
func FormatTradeOrg(t TradeEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** Trade: %s %s (%s)\n", t.Type, t.Instrument, shortID(t.ID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":ID: %s\n", t.ID)
	fmt.Fprintf(&b, ":DATE: %s\n", t.Date.Format(time.RFC3339))
	fmt.Fprintf(&b, ":INSTRUMENT: %s\n", t.Instrument)
	fmt.Fprintf(&b, ":TYPE: %s\n", t.Type)
	fmt.Fprintf(&b, ":LOT: %s\n", t.Lot)
	fmt.Fprintf(&b, ":ENTRY_PRICE: %s\n", t.EntryPrice)
	fmt.Fprintf(&b, ":EXIT_PRICE: %s\n", t.ExitPrice)
	fmt.Fprintf(&b, ":STOP_LOSS: %s\n", t.StopLoss)
	fmt.Fprintf(&b, ":TAKE_PROFIT: %s\n", t.TakeProfit)
	fmt.Fprintf(&b, ":PIPS: %d\n", t.Pips)
	fmt.Fprintf(&b, ":PROFIT: %s\n", t.Profit.StringFixed(2))
	fmt.Fprintf(&b, ":BALANCE_AFTER: %s\n", t.BalanceAfter.StringFixed(2))
	fmt.Fprintf(&b, ":RESULT: %s\n", t.Result)
	fmt.Fprintf(&b, ":RISK_REWARD: %s\n", t.RiskReward)
	if t.Strategy != "" {
		fmt.Fprintf(&b, ":STRATEGY: %s\n", t.Strategy)
	}
	if t.Market != "" {
		fmt.Fprintf(&b, ":MARKET: %s\n", t.Market)
	}
	b.WriteString(":END:\n\n")

	section(&b, "Emotion", joinNonEmpty(" -> ", t.EmotionBefore, t.EmotionAfter))
	section(&b, "Notes", t.Notes)
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []TradeEntry) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func section(b *strings.Builder, title, body string) {
	fmt.Fprintf(b, "*** %s\n", title)
	if body == "" {
		body = "-"
	}
	b.WriteString(body)
	b.WriteString("\n\n")
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[len(full)-8:]
}
