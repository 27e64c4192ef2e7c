// Package money holds the decimal helpers shared by the ledger, the
// statistics and the target evaluator. Amounts are shopspring decimals in
// the account's major unit; nothing in this module keeps money in float64.
package money

import (
	"fmt"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var (
	half    = decimal.NewFromFloat(0.5)
	hundred = decimal.NewFromInt(100)
)

// Hundred is 100 as a decimal.
func Hundred() decimal.Decimal { return hundred }

// Round rounds half up toward positive infinity at the given number of
// decimal places, so Round(-2.5, 0) is -2 and Round(2.5, 0) is 3.
func Round(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Shift(places).Add(half).Floor().Shift(-places)
}

// Round2 rounds to cents.
func Round2(d decimal.Decimal) decimal.Decimal {
	return Round(d, 2)
}

// Percent returns num/den*100. A zero or negative denominator yields zero.
func Percent(num, den decimal.Decimal) decimal.Decimal {
	if !den.IsPositive() {
		return decimal.Zero
	}
	return num.Mul(hundred).Div(den)
}

// Max returns the larger of a and b.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Parse reads a decimal amount, accepting thousands separators such as
// "1,000,000".
func Parse(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	return decimal.NewFromString(s)
}

// KnownCurrency reports whether code is an ISO currency known to go-money.
func KnownCurrency(code string) bool {
	return gomoney.GetCurrency(strings.ToUpper(code)) != nil
}

// Format renders an amount with its currency symbol and fraction digits.
// Codes go-money does not know, such as CENT, fall back to "<amount> <CODE>".
func Format(d decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	cur := gomoney.GetCurrency(code)
	if cur == nil {
		return fmt.Sprintf("%s %s", d.StringFixed(2), code)
	}
	minor := Round(d.Abs(), int32(cur.Fraction)).Shift(int32(cur.Fraction))
	out := cur.Formatter().Format(minor.IntPart())
	if d.IsNegative() && !minor.IsZero() {
		return "-" + out
	}
	return out
}
