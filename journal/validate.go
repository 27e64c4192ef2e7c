package journal

import (
	"strings"

	"github.com/rustyeddy/tradelog/internal/validation"
)

// normalize validates e and settles a Pending result from the profit sign.
// It returns a *validation.Error listing every bad field.
func normalize(e TradeEntry) (TradeEntry, error) {
	var v validation.Collector

	if e.Date.IsZero() {
		v.Add("date", "date is required")
	}
	e.Instrument = strings.TrimSpace(e.Instrument)
	if e.Instrument == "" {
		v.Add("instrument", "instrument is required")
	}
	if !e.Type.Valid() {
		v.Add("type", "type must be Buy or Sell")
	}
	if !e.Lot.IsPositive() {
		v.Add("lot", "lot must be positive")
	}
	if !e.EntryPrice.IsPositive() {
		v.Add("entryPrice", "entry price must be positive")
	}
	if !e.ExitPrice.IsPositive() {
		v.Add("exitPrice", "exit price must be positive")
	}
	if e.StopLoss.IsNegative() {
		v.Add("stopLoss", "stop loss cannot be negative")
	}
	if e.TakeProfit.IsNegative() {
		v.Add("takeProfit", "take profit cannot be negative")
	}
	if e.RiskReward.IsNegative() {
		v.Add("riskReward", "risk/reward cannot be negative")
	}

	switch e.Result {
	case Pending:
		e.Result = ResultFor(e.Profit)
	case Win:
		if !e.Profit.IsPositive() {
			v.Add("result", "a Win needs a positive profit")
		}
	case Lose:
		if !e.Profit.IsNegative() {
			v.Add("result", "a Lose needs a negative profit")
		}
	case BreakEven:
		if !e.Profit.IsZero() {
			v.Add("result", "a BreakEven needs zero profit")
		}
	default:
		v.Add("result", "unknown result")
	}

	if err := v.Err(); err != nil {
		return TradeEntry{}, err
	}
	return e, nil
}
