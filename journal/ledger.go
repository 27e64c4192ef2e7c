package journal

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradelog/internal/apperrors"
	"github.com/rustyeddy/tradelog/internal/validation"
	"github.com/rustyeddy/tradelog/pkg/id"
)

// Ledger is the ordered set of an account's trades plus the balance derived
// from them. Only each trade's profit is kept; BalanceAfter and the current
// balance are recomputed from the initial balance on read, so an edit or
// delete anywhere in the chain can never leave a stale downstream value.
//
// A Ledger is not safe for concurrent mutation. The account package owns one
// ledger per account and serializes writers.
type Ledger struct {
	initial  decimal.Decimal
	currency string
	ready    bool

	seq     int64
	entries []TradeEntry // chronological, BalanceAfter unset

	newID func() string
}

// NewLedger returns an empty ledger. The initial balance must be positive.
func NewLedger(initial decimal.Decimal, currency string) (*Ledger, error) {
	if err := validateInitial(initial); err != nil {
		return nil, err
	}
	return &Ledger{
		initial:  initial,
		currency: strings.ToUpper(strings.TrimSpace(currency)),
		ready:    true,
		newID:    id.New,
	}, nil
}

// Load rebuilds a ledger from persisted entries. Entries keep their Seq; a
// zero Seq is assigned in the given order.
func Load(initial decimal.Decimal, currency string, entries []TradeEntry) (*Ledger, error) {
	l, err := NewLedger(initial, currency)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Seq > l.seq {
			l.seq = e.Seq
		}
	}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.ID] {
			return nil, fmt.Errorf("load trade %s: %w", e.ID, apperrors.ErrDuplicateTrade)
		}
		seen[e.ID] = true
		if e.Seq == 0 {
			l.seq++
			e.Seq = l.seq
		}
		e.BalanceAfter = decimal.Zero
		l.entries = append(l.entries, e)
	}
	sortChronological(l.entries)
	return l, nil
}

func validateInitial(initial decimal.Decimal) error {
	if !initial.IsPositive() {
		return &validation.Error{Fields: map[string]string{
			"initialBalance": "initial balance must be positive",
		}}
	}
	return nil
}

func sortChronological(entries []TradeEntry) {
	slices.SortStableFunc(entries, func(a, b TradeEntry) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Seq, b.Seq)
	})
}

func (l *Ledger) check() error {
	if l == nil || !l.ready {
		return apperrors.ErrBalanceUninitialized
	}
	return nil
}

func (l *Ledger) index(tradeID string) int {
	return slices.IndexFunc(l.entries, func(e TradeEntry) bool { return e.ID == tradeID })
}

// Append validates e, assigns an ID when it has none and inserts it in
// chronological order. It returns the stored entry with its BalanceAfter.
func (l *Ledger) Append(e TradeEntry) (TradeEntry, error) {
	if err := l.check(); err != nil {
		return TradeEntry{}, err
	}
	e, err := normalize(e)
	if err != nil {
		return TradeEntry{}, err
	}
	if e.ID == "" {
		e.ID = l.newID()
	} else if l.index(e.ID) >= 0 {
		return TradeEntry{}, fmt.Errorf("append trade %s: %w", e.ID, apperrors.ErrDuplicateTrade)
	}

	e.Seq = l.seq + 1
	e.BalanceAfter = decimal.Zero

	next := append(slices.Clone(l.entries), e)
	sortChronological(next)

	l.entries = next
	l.seq = e.Seq
	return l.Entry(e.ID)
}

// Edit replaces the data of trade tradeID with e. The ID and insertion
// sequence are kept; the old profit is backed out of the chain and the new
// one applied, so every later BalanceAfter moves with it.
func (l *Ledger) Edit(tradeID string, e TradeEntry) (TradeEntry, error) {
	if err := l.check(); err != nil {
		return TradeEntry{}, err
	}
	i := l.index(tradeID)
	if i < 0 {
		return TradeEntry{}, fmt.Errorf("edit trade %s: %w", tradeID, apperrors.ErrTradeNotFound)
	}
	e, err := normalize(e)
	if err != nil {
		return TradeEntry{}, err
	}
	e.ID = tradeID
	e.Seq = l.entries[i].Seq
	e.BalanceAfter = decimal.Zero

	next := slices.Clone(l.entries)
	next[i] = e
	sortChronological(next)

	l.entries = next
	return l.Entry(tradeID)
}

// Delete removes trade tradeID.
func (l *Ledger) Delete(tradeID string) error {
	if err := l.check(); err != nil {
		return err
	}
	i := l.index(tradeID)
	if i < 0 {
		return fmt.Errorf("delete trade %s: %w", tradeID, apperrors.ErrTradeNotFound)
	}
	l.entries = slices.Delete(slices.Clone(l.entries), i, i+1)
	return nil
}

// Reset replaces the initial balance, as after a fresh deposit. Trades are
// kept and the chain is re-derived from the new base.
func (l *Ledger) Reset(initial decimal.Decimal) error {
	if err := l.check(); err != nil {
		return err
	}
	if err := validateInitial(initial); err != nil {
		return err
	}
	l.initial = initial
	return nil
}

// Entries returns chronologically ordered copies of every trade with
// BalanceAfter derived from the initial balance.
func (l *Ledger) Entries() []TradeEntry {
	if l.check() != nil {
		return nil
	}
	out := make([]TradeEntry, len(l.entries))
	bal := l.initial
	for i, e := range l.entries {
		bal = bal.Add(e.Profit)
		e.BalanceAfter = bal
		out[i] = e
	}
	return out
}

// Entry returns a single trade with its derived BalanceAfter.
func (l *Ledger) Entry(tradeID string) (TradeEntry, error) {
	if err := l.check(); err != nil {
		return TradeEntry{}, err
	}
	bal := l.initial
	for _, e := range l.entries {
		bal = bal.Add(e.Profit)
		if e.ID == tradeID {
			e.BalanceAfter = bal
			return e, nil
		}
	}
	return TradeEntry{}, fmt.Errorf("trade %s: %w", tradeID, apperrors.ErrTradeNotFound)
}

// Balance returns the initial balance, the current balance and currency.
func (l *Ledger) Balance() (BalanceConfig, error) {
	if err := l.check(); err != nil {
		return BalanceConfig{}, err
	}
	cur := l.initial
	for _, e := range l.entries {
		cur = cur.Add(e.Profit)
	}
	return BalanceConfig{Initial: l.initial, Current: cur, Currency: l.currency}, nil
}

// Len is the number of trades.
func (l *Ledger) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Clone returns an independent copy. Mutating the clone never affects l.
func (l *Ledger) Clone() *Ledger {
	if l == nil {
		return nil
	}
	c := *l
	c.entries = slices.Clone(l.entries)
	return &c
}

// WithIDs makes the ledger mint trade ids with gen.
func (l *Ledger) WithIDs(gen func() string) *Ledger {
	l.newID = gen
	return l
}
