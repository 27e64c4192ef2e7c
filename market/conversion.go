package market

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradelog/pkg/money"
)

// USDDisclaimer must accompany any figure produced by ConvertToUSD.
const USDDisclaimer = "Figures are normalized to USD with fixed reference rates for comparison only. " +
	"They may not match native-currency figures exactly, especially for CENT accounts."

// Rates maps a currency code to the USD value of one unit. The table is
// static and only changes with a release.
var Rates = map[string]decimal.Decimal{
	"USD":  decimal.NewFromInt(1),
	"IDR":  decimal.RequireFromString("0.000065"),
	"CENT": decimal.RequireFromString("0.01"),
	"EUR":  decimal.RequireFromString("1.08"),
	"GBP":  decimal.RequireFromString("1.26"),
	"JPY":  decimal.RequireFromString("0.0067"),
}

// NormalizeCode trims and upper-cases a currency code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Rate returns the USD rate for code. Unknown or malformed codes pass
// through at 1.
func Rate(code string) decimal.Decimal {
	if r, ok := Rates[NormalizeCode(code)]; ok {
		return r
	}
	return decimal.NewFromInt(1)
}

// KnownRate reports whether code has an entry in Rates.
func KnownRate(code string) bool {
	_, ok := Rates[NormalizeCode(code)]
	return ok
}

// ConvertToUSD converts amount in code to USD, rounded to cents. It never
// fails: an unknown code converts at 1.
func ConvertToUSD(amount decimal.Decimal, code string) decimal.Decimal {
	return money.Round2(amount.Mul(Rate(code)))
}
