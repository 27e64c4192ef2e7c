// Package journal is the trade ledger: trade entries, the balance chain
// derived from them, and the ways a journal is persisted and exported
// (SQLite, CSV, Org).
package journal

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradelog/target"
)

// AccountRecord is everything persisted for one account.
type AccountRecord struct {
	ID        string
	Currency  string
	Initial   decimal.Decimal
	CreatedAt time.Time
	Trades    []TradeEntry
	Target    target.Config
}

// Ledger rebuilds the account's ledger from the record.
func (r AccountRecord) Ledger() (*Ledger, error) {
	return Load(r.Initial, r.Currency, r.Trades)
}
