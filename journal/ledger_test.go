package journal

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradelog/internal/apperrors"
	"github.com/rustyeddy/tradelog/internal/validation"
)

var day0 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newTestLedger(t *testing.T, initial int64) *Ledger {
	t.Helper()

	l, err := NewLedger(dec(initial), "idr")
	require.NoError(t, err)

	n := 0
	return l.WithIDs(func() string {
		n++
		return fmt.Sprintf("T%03d", n)
	})
}

func trade(at time.Time, profit int64) TradeEntry {
	return TradeEntry{
		Date:       at,
		Instrument: "XAUUSD",
		Type:       Buy,
		Lot:        decimal.RequireFromString("0.10"),
		EntryPrice: decimal.RequireFromString("2300.50"),
		ExitPrice:  decimal.RequireFromString("2310.00"),
		Pips:       95,
		Profit:     dec(profit),
		Strategy:   "breakout",
	}
}

// assertChain checks current == initial + Σ profit and the BalanceAfter
// chain for every entry.
func assertChain(t *testing.T, l *Ledger) {
	t.Helper()

	bal, err := l.Balance()
	require.NoError(t, err)

	prev := bal.Initial
	sum := decimal.Zero
	for i, e := range l.Entries() {
		want := prev.Add(e.Profit)
		assert.True(t, want.Equal(e.BalanceAfter), "entry %d (%s): balanceAfter %s, want %s", i, e.ID, e.BalanceAfter, want)
		prev = e.BalanceAfter
		sum = sum.Add(e.Profit)
	}
	assert.True(t, bal.Initial.Add(sum).Equal(bal.Current), "current %s != initial %s + %s", bal.Current, bal.Initial, sum)
}

func TestLedgerScenarioA(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t, 1_000_000)
	for i, p := range []int64{50_000, -20_000, 30_000} {
		_, err := l.Append(trade(day0.Add(time.Duration(i)*time.Hour), p))
		require.NoError(t, err)
	}

	bal, err := l.Balance()
	require.NoError(t, err)
	assert.True(t, dec(1_060_000).Equal(bal.Current))
	assert.Equal(t, "IDR", bal.Currency)

	entries := l.Entries()
	require.Len(t, entries, 3)
	assert.True(t, dec(1_050_000).Equal(entries[0].BalanceAfter))
	assert.True(t, dec(1_030_000).Equal(entries[1].BalanceAfter))
	assert.True(t, dec(1_060_000).Equal(entries[2].BalanceAfter))
	assertChain(t, l)
}

func TestLedgerScenarioDEditRederivesChain(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t, 1_000_000)
	first, err := l.Append(trade(day0, 50_000))
	require.NoError(t, err)
	_, err = l.Append(trade(day0.Add(time.Hour), -20_000))
	require.NoError(t, err)
	_, err = l.Append(trade(day0.Add(2*time.Hour), 30_000))
	require.NoError(t, err)

	edited := trade(day0, 10_000)
	got, err := l.Edit(first.ID, edited)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.True(t, dec(1_010_000).Equal(got.BalanceAfter))

	entries := l.Entries()
	assert.True(t, dec(990_000).Equal(entries[1].BalanceAfter))
	assert.True(t, dec(1_020_000).Equal(entries[2].BalanceAfter))

	bal, _ := l.Balance()
	assert.True(t, dec(1_020_000).Equal(bal.Current))
	assertChain(t, l)
}

func TestLedgerDeleteRederivesChain(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t, 1_000)
	a, _ := l.Append(trade(day0, 100))
	_, _ = l.Append(trade(day0.Add(time.Hour), -50))
	_, _ = l.Append(trade(day0.Add(2*time.Hour), 25))

	require.NoError(t, l.Delete(a.ID))

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.True(t, dec(950).Equal(entries[0].BalanceAfter))
	assert.True(t, dec(975).Equal(entries[1].BalanceAfter))
	assertChain(t, l)

	err := l.Delete(a.ID)
	assert.ErrorIs(t, err, apperrors.ErrTradeNotFound)
}

func TestLedgerOrdersByDateThenInsertion(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t, 1_000)
	late, _ := l.Append(trade(day0.Add(48*time.Hour), 10))
	early, _ := l.Append(trade(day0, 20))
	tie, _ := l.Append(trade(day0, 30))

	entries := l.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, []string{early.ID, tie.ID, late.ID}, []string{entries[0].ID, entries[1].ID, entries[2].ID})
	assert.True(t, dec(1_060).Equal(entries[2].BalanceAfter))

	// moving the late trade to the front re-sorts it and the chain
	moved := trade(day0.Add(-time.Hour), 10)
	_, err := l.Edit(late.ID, moved)
	require.NoError(t, err)
	entries = l.Entries()
	assert.Equal(t, late.ID, entries[0].ID)
	assert.True(t, dec(1_010).Equal(entries[0].BalanceAfter))
	assertChain(t, l)
}

func TestLedgerSettlesPendingResult(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t, 1_000)
	tests := []struct {
		profit int64
		want   Result
	}{
		{10, Win},
		{-10, Lose},
		{0, BreakEven},
	}
	for i, tt := range tests {
		e, err := l.Append(trade(day0.Add(time.Duration(i)*time.Minute), tt.profit))
		require.NoError(t, err)
		assert.Equal(t, tt.want, e.Result)
	}
}

func TestLedgerRejectsResultSignMismatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result Result
		profit int64
	}{
		{"win with loss", Win, -5},
		{"win with zero", Win, 0},
		{"lose with profit", Lose, 5},
		{"breakeven with profit", BreakEven, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger(t, 1_000)
			e := trade(day0, tt.profit)
			e.Result = tt.result

			_, err := l.Append(e)
			require.Error(t, err)
			fields := validation.Fields(err)
			require.NotNil(t, fields)
			assert.Contains(t, fields, "result")
			assert.Zero(t, l.Len())
		})
	}
}

func TestLedgerValidationLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t, 1_000)
	a, err := l.Append(trade(day0, 100))
	require.NoError(t, err)
	before := l.Entries()
	balBefore, _ := l.Balance()

	bad := trade(day0, 500)
	bad.Lot = decimal.Zero
	bad.Instrument = " "
	bad.EntryPrice = dec(-1)
	bad.Type = 0

	_, err = l.Append(bad)
	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "lot")
	assert.Contains(t, verr.Fields, "instrument")
	assert.Contains(t, verr.Fields, "entryPrice")
	assert.Contains(t, verr.Fields, "type")

	_, err = l.Edit(a.ID, bad)
	require.Error(t, err)

	_, err = l.Edit("missing", trade(day0, 1))
	assert.ErrorIs(t, err, apperrors.ErrTradeNotFound)

	dup := trade(day0, 1)
	dup.ID = a.ID
	_, err = l.Append(dup)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateTrade)

	assert.Equal(t, before, l.Entries())
	balAfter, _ := l.Balance()
	assert.Equal(t, balBefore, balAfter)
}

func TestLedgerUninitialized(t *testing.T) {
	t.Parallel()

	var l Ledger
	_, err := l.Append(trade(day0, 1))
	assert.ErrorIs(t, err, apperrors.ErrBalanceUninitialized)
	_, err = l.Balance()
	assert.ErrorIs(t, err, apperrors.ErrBalanceUninitialized)
	assert.ErrorIs(t, l.Delete("x"), apperrors.ErrBalanceUninitialized)
	assert.Nil(t, l.Entries())

	_, err = NewLedger(decimal.Zero, "USD")
	assert.NotNil(t, validation.Fields(err))
}

func TestLedgerReset(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t, 1_000)
	_, _ = l.Append(trade(day0, 100))

	require.NoError(t, l.Reset(dec(5_000)))
	bal, _ := l.Balance()
	assert.True(t, dec(5_100).Equal(bal.Current))
	assertChain(t, l)

	assert.Error(t, l.Reset(dec(-1)))
	bal, _ = l.Balance()
	assert.True(t, dec(5_000).Equal(bal.Initial))
}

func TestLedgerCloneIsIndependent(t *testing.T) {
	t.Parallel()

	l := newTestLedger(t, 1_000)
	_, _ = l.Append(trade(day0, 100))

	c := l.Clone()
	_, err := c.Append(trade(day0.Add(time.Hour), 50))
	require.NoError(t, err)

	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 2, c.Len())
}

func TestLoadKeepsSequence(t *testing.T) {
	t.Parallel()

	entries := []TradeEntry{
		{ID: "B", Date: day0, Profit: dec(20), Seq: 7},
		{ID: "A", Date: day0, Profit: dec(10), Seq: 5},
	}
	l, err := Load(dec(100), "USD", entries)
	require.NoError(t, err)

	got := l.Entries()
	assert.Equal(t, "A", got[0].ID)
	assert.Equal(t, "B", got[1].ID)
	assert.True(t, dec(130).Equal(got[1].BalanceAfter))

	e, err := l.Append(trade(day0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(8), e.Seq)

	_, err = Load(dec(100), "USD", []TradeEntry{{ID: "A"}, {ID: "A"}})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateTrade)
}

// A random walk of appends, edits and deletes must keep the balance chain
// consistent after every step.
func TestLedgerChainInvariantRandomOps(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	l := newTestLedger(t, 10_000)

	for step := 0; step < 500; step++ {
		entries := l.Entries()
		at := day0.Add(time.Duration(rng.Intn(240)) * time.Hour)
		profit := int64(rng.Intn(2001) - 1000)

		switch op := rng.Intn(3); {
		case op == 0 || len(entries) == 0:
			_, err := l.Append(trade(at, profit))
			require.NoError(t, err)
		case op == 1:
			target := entries[rng.Intn(len(entries))]
			_, err := l.Edit(target.ID, trade(at, profit))
			require.NoError(t, err)
		default:
			target := entries[rng.Intn(len(entries))]
			require.NoError(t, l.Delete(target.ID))
		}
		assertChain(t, l)
	}
}
