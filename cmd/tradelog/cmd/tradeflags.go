package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"

	"github.com/rustyeddy/tradelog/journal"
	"github.com/rustyeddy/tradelog/market"
	"github.com/rustyeddy/tradelog/pkg/money"
	"github.com/rustyeddy/tradelog/risk"
)

// tradeDateLayouts are accepted for --date, most specific first.
var tradeDateLayouts = []string{
	time.RFC3339,
	journal.CSVDateLayout,
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseTradeDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range tradeDateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q: want YYYY-MM-DD HH:MM", s)
}

// tradeFlags are the trade fields as typed on the command line.
type tradeFlags struct {
	date          string
	instrument    string
	typ           string
	lot           string
	entry         string
	exit          string
	stopLoss      string
	takeProfit    string
	pips          int
	profit        string
	result        string
	riskReward    string
	strategy      string
	market        string
	emotionBefore string
	emotionAfter  string
	notes         string
}

func (f *tradeFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.date, "date", "", "trade date, YYYY-MM-DD HH:MM (default now)")
	fs.StringVarP(&f.instrument, "instrument", "i", "", "instrument, e.g. EURUSD")
	fs.StringVarP(&f.typ, "type", "t", "", "buy or sell")
	fs.StringVar(&f.lot, "lot", "", "lot size")
	fs.StringVar(&f.entry, "entry", "", "entry price")
	fs.StringVar(&f.exit, "exit", "", "exit price")
	fs.StringVar(&f.stopLoss, "sl", "0", "stop loss price")
	fs.StringVar(&f.takeProfit, "tp", "0", "take profit price")
	fs.IntVar(&f.pips, "pips", 0, "pips gained or lost (computed from prices when omitted)")
	fs.StringVarP(&f.profit, "profit", "p", "", "profit or loss in account currency")
	fs.StringVar(&f.result, "result", "", "win, lose or breakeven (default from profit)")
	fs.StringVar(&f.riskReward, "rr", "0", "risk/reward ratio (computed from --sl and --tp when omitted)")
	fs.StringVar(&f.strategy, "strategy", "", "strategy name")
	fs.StringVar(&f.market, "market", "", "market condition")
	fs.StringVar(&f.emotionBefore, "emotion-before", "", "emotion before the trade")
	fs.StringVar(&f.emotionAfter, "emotion-after", "", "emotion after the trade")
	fs.StringVar(&f.notes, "notes", "", "notes")
}

// apply overlays the flags that were set onto e. With all=true every flag is
// applied, which is what a new trade wants.
func (f *tradeFlags) apply(fs *pflag.FlagSet, e journal.TradeEntry, all bool, now time.Time) (journal.TradeEntry, error) {
	set := func(name string) bool { return all || fs.Changed(name) }

	var err error
	decimalFlag := func(name, v string, dst *decimal.Decimal) {
		if err != nil || !set(name) {
			return
		}
		if v == "" {
			*dst = decimal.Zero
			return
		}
		d, perr := money.Parse(v)
		if perr != nil {
			err = fmt.Errorf("--%s: %w", name, perr)
			return
		}
		*dst = d
	}

	if set("date") {
		if f.date == "" {
			e.Date = now
		} else if e.Date, err = parseTradeDate(f.date, now.Location()); err != nil {
			return e, err
		}
	}
	if set("instrument") {
		e.Instrument = market.Symbol(f.instrument)
	}
	if set("type") && f.typ != "" {
		if e.Type, err = journal.ParseTradeType(f.typ); err != nil {
			return e, err
		}
	}
	decimalFlag("lot", f.lot, &e.Lot)
	decimalFlag("entry", f.entry, &e.EntryPrice)
	decimalFlag("exit", f.exit, &e.ExitPrice)
	decimalFlag("sl", f.stopLoss, &e.StopLoss)
	decimalFlag("tp", f.takeProfit, &e.TakeProfit)
	decimalFlag("profit", f.profit, &e.Profit)
	decimalFlag("rr", f.riskReward, &e.RiskReward)
	if err != nil {
		return e, err
	}

	if set("result") {
		e.Result = journal.Pending
		if f.result != "" {
			if e.Result, err = journal.ParseResult(f.result); err != nil {
				return e, err
			}
		}
	}
	if set("strategy") {
		e.Strategy = f.strategy
	}
	if set("market") {
		e.Market = f.market
	}
	if set("emotion-before") {
		e.EmotionBefore = f.emotionBefore
	}
	if set("emotion-after") {
		e.EmotionAfter = f.emotionAfter
	}
	if set("notes") {
		e.Notes = f.notes
	}

	if fs.Changed("pips") {
		e.Pips = f.pips
	} else if set("entry") || set("exit") || set("instrument") || set("type") {
		if pips, ok := market.Pips(e.Instrument, e.EntryPrice, e.ExitPrice, e.Type == journal.Buy); ok {
			e.Pips = pips
		}
	}

	if !fs.Changed("rr") && (set("entry") || set("sl") || set("tp")) {
		e.RiskReward = risk.RR(e.EntryPrice, e.StopLoss, e.TakeProfit)
	}
	return e, nil
}
