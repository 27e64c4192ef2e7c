package market

import (
	"strings"

	"github.com/shopspring/decimal"
)

// InstrumentMeta is what the journal needs to know about a symbol.
type InstrumentMeta struct {
	Name          string
	BaseCurrency  string
	QuoteCurrency string
	// PipLocation is the power of ten of one pip: -4 for EURUSD, -2 for
	// USDJPY.
	PipLocation int32
}

var Instruments = map[string]InstrumentMeta{
	"EURUSD": {Name: "EURUSD", BaseCurrency: "EUR", QuoteCurrency: "USD", PipLocation: -4},
	"GBPUSD": {Name: "GBPUSD", BaseCurrency: "GBP", QuoteCurrency: "USD", PipLocation: -4},
	"AUDUSD": {Name: "AUDUSD", BaseCurrency: "AUD", QuoteCurrency: "USD", PipLocation: -4},
	"NZDUSD": {Name: "NZDUSD", BaseCurrency: "NZD", QuoteCurrency: "USD", PipLocation: -4},
	"USDCAD": {Name: "USDCAD", BaseCurrency: "USD", QuoteCurrency: "CAD", PipLocation: -4},
	"USDCHF": {Name: "USDCHF", BaseCurrency: "USD", QuoteCurrency: "CHF", PipLocation: -4},
	"EURGBP": {Name: "EURGBP", BaseCurrency: "EUR", QuoteCurrency: "GBP", PipLocation: -4},
	"USDJPY": {Name: "USDJPY", BaseCurrency: "USD", QuoteCurrency: "JPY", PipLocation: -2},
	"EURJPY": {Name: "EURJPY", BaseCurrency: "EUR", QuoteCurrency: "JPY", PipLocation: -2},
	"GBPJPY": {Name: "GBPJPY", BaseCurrency: "GBP", QuoteCurrency: "JPY", PipLocation: -2},
	"XAUUSD": {Name: "XAUUSD", BaseCurrency: "XAU", QuoteCurrency: "USD", PipLocation: -1},
	"XAGUSD": {Name: "XAGUSD", BaseCurrency: "XAG", QuoteCurrency: "USD", PipLocation: -3},
}

// Symbol folds "EUR/USD", "eur_usd" and "EURUSD" to "EURUSD".
func Symbol(instrument string) string {
	r := strings.NewReplacer("/", "", "_", "", "-", "", " ", "")
	return strings.ToUpper(r.Replace(instrument))
}

// Lookup finds an instrument by any spelling Symbol accepts.
func Lookup(instrument string) (InstrumentMeta, bool) {
	m, ok := Instruments[Symbol(instrument)]
	return m, ok
}

// Pips is the signed move from entry to exit in pips, rounded to the
// nearest whole pip. long is true for a buy. ok is false for an unknown
// instrument.
func Pips(instrument string, entry, exit decimal.Decimal, long bool) (pips int, ok bool) {
	meta, ok := Lookup(instrument)
	if !ok {
		return 0, false
	}
	move := exit.Sub(entry)
	if !long {
		move = move.Neg()
	}
	return int(move.Shift(-meta.PipLocation).Round(0).IntPart()), true
}
