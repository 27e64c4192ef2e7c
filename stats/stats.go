// Package stats aggregates a journal's trades into performance metrics.
// Every function is pure: it reads the entries it is given, never mutates
// them, and returns the same output for the same input.
package stats

import (
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradelog/journal"
	"github.com/rustyeddy/tradelog/pkg/money"
)

// ProfitFactorSentinel stands in for an infinite profit factor: there are
// winning trades and no losing ones.
const ProfitFactorSentinel = 999.0

// Stats are the performance metrics of a set of trades.
type Stats struct {
	TotalTrades int `json:"totalTrades"`
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	BreakEven   int `json:"breakEven"`
	WinRate     int `json:"winRate"`

	NetProfit   decimal.Decimal `json:"netProfit"`
	AvgProfit   decimal.Decimal `json:"avgProfit"`
	GrossProfit decimal.Decimal `json:"grossProfit"`
	GrossLoss   decimal.Decimal `json:"grossLoss"`
	LargestWin  decimal.Decimal `json:"largestWin"`
	LargestLoss decimal.Decimal `json:"largestLoss"`

	TotalPips int `json:"totalPips"`
	AvgPips   int `json:"avgPips"`

	ROI           float64 `json:"roi"`
	ProfitFactor  float64 `json:"profitFactor"`
	AvgRiskReward float64 `json:"avgRiskReward"`

	// Chain metrics; only set by Compute, zero on groups.
	MaxDrawdownPct       float64 `json:"maxDrawdownPct"`
	MaxConsecutiveWins   int     `json:"maxConsecutiveWins"`
	MaxConsecutiveLosses int     `json:"maxConsecutiveLosses"`
}

// Compute aggregates entries, taken in chronological order, against the
// account balance.
func Compute(entries []journal.TradeEntry, bal journal.BalanceConfig) Stats {
	s := aggregate(entries, bal.Initial)
	s.ROI = roi(bal.Current.Sub(bal.Initial), bal.Initial)
	s.MaxDrawdownPct = maxDrawdown(entries, bal.Initial)
	s.MaxConsecutiveWins, s.MaxConsecutiveLosses = streaks(entries)
	return s
}

func aggregate(entries []journal.TradeEntry, initial decimal.Decimal) Stats {
	s := Stats{
		NetProfit:   decimal.Zero,
		AvgProfit:   decimal.Zero,
		GrossProfit: decimal.Zero,
		GrossLoss:   decimal.Zero,
		LargestWin:  decimal.Zero,
		LargestLoss: decimal.Zero,
	}

	rrSum := decimal.Zero
	rrCount := 0
	for _, e := range entries {
		s.TotalTrades++
		switch e.Result {
		case journal.Win:
			s.Wins++
		case journal.Lose:
			s.Losses++
		case journal.BreakEven:
			s.BreakEven++
		}

		s.NetProfit = s.NetProfit.Add(e.Profit)
		s.TotalPips += e.Pips

		switch {
		case e.Profit.IsPositive():
			s.GrossProfit = s.GrossProfit.Add(e.Profit)
			if e.Profit.GreaterThan(s.LargestWin) {
				s.LargestWin = e.Profit
			}
		case e.Profit.IsNegative():
			s.GrossLoss = s.GrossLoss.Add(e.Profit.Abs())
			if e.Profit.LessThan(s.LargestLoss) {
				s.LargestLoss = e.Profit
			}
		}

		if e.RiskReward.IsPositive() {
			rrSum = rrSum.Add(e.RiskReward)
			rrCount++
		}
	}

	if s.TotalTrades == 0 {
		return s
	}

	total := decimal.NewFromInt(int64(s.TotalTrades))
	s.WinRate = int(money.Round(money.Percent(decimal.NewFromInt(int64(s.Wins)), total), 0).IntPart())
	s.AvgProfit = money.Round(s.NetProfit.Div(total), 0)
	s.AvgPips = int(money.Round(decimal.NewFromInt(int64(s.TotalPips)).Div(total), 0).IntPart())
	s.ROI = roi(s.NetProfit, initial)
	s.ProfitFactor = profitFactor(s.GrossProfit, s.GrossLoss)
	if rrCount > 0 {
		s.AvgRiskReward = money.Round2(rrSum.Div(decimal.NewFromInt(int64(rrCount)))).InexactFloat64()
	}
	return s
}

func roi(gain, initial decimal.Decimal) float64 {
	if !initial.IsPositive() {
		return 0
	}
	return money.Round2(money.Percent(gain, initial)).InexactFloat64()
}

func profitFactor(gross, loss decimal.Decimal) float64 {
	if loss.IsZero() {
		if gross.IsPositive() {
			return ProfitFactorSentinel
		}
		return 0
	}
	return money.Round2(gross.Div(loss)).InexactFloat64()
}

// maxDrawdown walks the balance chain from initial and returns the deepest
// peak-to-trough fall in percent of the peak.
func maxDrawdown(entries []journal.TradeEntry, initial decimal.Decimal) float64 {
	peak := initial
	bal := initial
	worst := decimal.Zero
	for _, e := range entries {
		bal = bal.Add(e.Profit)
		if bal.GreaterThan(peak) {
			peak = bal
			continue
		}
		if dd := money.Percent(peak.Sub(bal), peak); dd.GreaterThan(worst) {
			worst = dd
		}
	}
	return money.Round2(worst).InexactFloat64()
}

func streaks(entries []journal.TradeEntry) (wins, losses int) {
	var w, l int
	for _, e := range entries {
		switch e.Result {
		case journal.Win:
			w, l = w+1, 0
		case journal.Lose:
			w, l = 0, l+1
		default:
			w, l = 0, 0
		}
		wins = max(wins, w)
		losses = max(losses, l)
	}
	return wins, losses
}
