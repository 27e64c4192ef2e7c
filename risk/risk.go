// Package risk derives the planned risk of a trade from its prices.
package risk

import (
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradelog/market"
	"github.com/rustyeddy/tradelog/pkg/money"
)

// RR is the planned reward over the planned risk, rounded to 2 places. It is
// zero when the stop is missing or sits on the entry.
func RR(entry, stop, takeProfit decimal.Decimal) decimal.Decimal {
	if stop.IsZero() || takeProfit.IsZero() {
		return decimal.Zero
	}
	risk := entry.Sub(stop).Abs()
	if risk.IsZero() {
		return decimal.Zero
	}
	reward := takeProfit.Sub(entry).Abs()
	return money.Round2(reward.Div(risk))
}

// StopPips is the distance from entry to stop in pips. ok is false for an
// unknown instrument.
func StopPips(instrument string, entry, stop decimal.Decimal) (int, bool) {
	if stop.IsZero() {
		return 0, false
	}
	pips, ok := market.Pips(instrument, entry, stop, false)
	if pips < 0 {
		pips = -pips
	}
	return pips, ok
}

// Pct is the loss as a percentage of the balance it was taken from, rounded
// to 2 places. A non-positive balance yields 0.
func Pct(loss, balance decimal.Decimal) float64 {
	if !balance.IsPositive() {
		return 0
	}
	return money.Round2(money.Percent(loss.Abs(), balance)).InexactFloat64()
}
