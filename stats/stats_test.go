package stats

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradelog/journal"
)

var day0 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

type spec struct {
	at         time.Time
	profit     int64
	pips       int
	instrument string
	strategy   string
	side       journal.TradeType
	rr         string
}

func build(t *testing.T, initial int64, specs ...spec) ([]journal.TradeEntry, journal.BalanceConfig) {
	t.Helper()

	l, err := journal.NewLedger(dec(initial), "USD")
	require.NoError(t, err)
	for _, s := range specs {
		if s.instrument == "" {
			s.instrument = "EURUSD"
		}
		if s.side == 0 {
			s.side = journal.Buy
		}
		rr := decimal.Zero
		if s.rr != "" {
			rr = decimal.RequireFromString(s.rr)
		}
		_, err := l.Append(journal.TradeEntry{
			Date:       s.at,
			Instrument: s.instrument,
			Type:       s.side,
			Lot:        dec(1),
			EntryPrice: dec(1),
			ExitPrice:  dec(1),
			Pips:       s.pips,
			Profit:     dec(s.profit),
			Strategy:   s.strategy,
			RiskReward: rr,
		})
		require.NoError(t, err)
	}
	bal, err := l.Balance()
	require.NoError(t, err)
	return l.Entries(), bal
}

func hour(h int) time.Time { return day0.Add(time.Duration(h) * time.Hour) }

func TestComputeScenarioA(t *testing.T) {
	t.Parallel()

	entries, bal := build(t, 1_000_000,
		spec{at: hour(0), profit: 50_000, pips: 50},
		spec{at: hour(1), profit: -20_000, pips: -20},
		spec{at: hour(2), profit: 30_000, pips: 31},
	)
	s := Compute(entries, bal)

	assert.True(t, dec(1_060_000).Equal(bal.Current))
	assert.Equal(t, 3, s.TotalTrades)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, 0, s.BreakEven)
	assert.Equal(t, 67, s.WinRate)
	assert.True(t, dec(60_000).Equal(s.NetProfit))
	assert.True(t, dec(20_000).Equal(s.AvgProfit))
	assert.True(t, dec(50_000).Equal(s.LargestWin))
	assert.True(t, dec(-20_000).Equal(s.LargestLoss))
	assert.True(t, dec(80_000).Equal(s.GrossProfit))
	assert.True(t, dec(20_000).Equal(s.GrossLoss))
	assert.Equal(t, 61, s.TotalPips)
	assert.Equal(t, 20, s.AvgPips)
	assert.Equal(t, 6.0, s.ROI)
	assert.Equal(t, 4.0, s.ProfitFactor)
	assert.Equal(t, 1.9, s.MaxDrawdownPct)
	assert.Equal(t, 1, s.MaxConsecutiveWins)
	assert.Equal(t, 1, s.MaxConsecutiveLosses)
}

func TestComputeNoTrades(t *testing.T) {
	t.Parallel()

	bal := journal.BalanceConfig{Initial: dec(1_000), Current: dec(1_000), Currency: "USD"}
	s := Compute(nil, bal)

	assert.Equal(t, 0, s.TotalTrades)
	assert.Equal(t, 0, s.WinRate)
	assert.True(t, s.AvgProfit.IsZero())
	assert.Equal(t, 0, s.AvgPips)
	assert.Equal(t, 0.0, s.ProfitFactor)
	assert.Equal(t, 0.0, s.ROI)
	assert.Equal(t, 0.0, s.MaxDrawdownPct)
}

func TestComputeProfitFactorSentinel(t *testing.T) {
	t.Parallel()

	entries, bal := build(t, 1_000,
		spec{at: hour(0), profit: 10},
		spec{at: hour(1), profit: 0},
		spec{at: hour(2), profit: 5},
	)
	s := Compute(entries, bal)
	assert.Equal(t, ProfitFactorSentinel, s.ProfitFactor)
	assert.False(t, math.IsInf(s.ProfitFactor, 0))
	assert.Equal(t, 1, s.BreakEven)
	assert.Equal(t, 1, s.MaxConsecutiveWins)

	// only break-even trades: no profit, no loss
	entries, bal = build(t, 1_000, spec{at: hour(0), profit: 0})
	assert.Equal(t, 0.0, Compute(entries, bal).ProfitFactor)
}

func TestComputeROIGuard(t *testing.T) {
	t.Parallel()

	entries, _ := build(t, 1_000, spec{at: hour(0), profit: 10})
	s := Compute(entries, journal.BalanceConfig{Initial: decimal.Zero, Current: dec(10)})
	assert.Equal(t, 0.0, s.ROI)
	assert.False(t, math.IsNaN(s.ROI))

	s = Compute(entries, journal.BalanceConfig{Initial: dec(-5), Current: dec(5)})
	assert.Equal(t, 0.0, s.ROI)
}

func TestComputeRoundsHalfUp(t *testing.T) {
	t.Parallel()

	// avg of -5 over 2 trades is -2.5, which rounds to -2
	entries, bal := build(t, 1_000,
		spec{at: hour(0), profit: -10, pips: -3},
		spec{at: hour(1), profit: 5, pips: 0},
	)
	s := Compute(entries, bal)
	assert.True(t, dec(-2).Equal(s.AvgProfit), s.AvgProfit.String())
	assert.Equal(t, -1, s.AvgPips)
	assert.Equal(t, 50, s.WinRate)
	assert.Equal(t, 0.5, s.ProfitFactor)
	assert.Equal(t, -0.5, s.ROI)
}

func TestComputeStreaksAndDrawdown(t *testing.T) {
	t.Parallel()

	entries, bal := build(t, 1_000,
		spec{at: hour(0), profit: 100},
		spec{at: hour(1), profit: 100},
		spec{at: hour(2), profit: 100},
		spec{at: hour(3), profit: -260},
		spec{at: hour(4), profit: -65},
		spec{at: hour(5), profit: 500},
	)
	s := Compute(entries, bal)
	assert.Equal(t, 3, s.MaxConsecutiveWins)
	assert.Equal(t, 2, s.MaxConsecutiveLosses)
	// peak 1300, trough 975
	assert.Equal(t, 25.0, s.MaxDrawdownPct)
}

func TestComputeAvgRiskReward(t *testing.T) {
	t.Parallel()

	entries, bal := build(t, 1_000,
		spec{at: hour(0), profit: 10, rr: "2"},
		spec{at: hour(1), profit: -5, rr: "1.5"},
		spec{at: hour(2), profit: 1},
	)
	assert.Equal(t, 1.75, Compute(entries, bal).AvgRiskReward)
}

func TestComputeIsIdempotentAndPure(t *testing.T) {
	t.Parallel()

	entries, bal := build(t, 1_000,
		spec{at: hour(0), profit: 10, instrument: "xauusd"},
		spec{at: hour(7), profit: -3, instrument: "EURUSD"},
	)
	before := make([]journal.TradeEntry, len(entries))
	copy(before, entries)

	a := Compute(entries, bal)
	b := Compute(entries, bal)
	assert.Equal(t, a, b)

	g1 := ByInstrument(entries, bal)
	g2 := ByInstrument(entries, bal)
	assert.Equal(t, g1, g2)
	assert.Equal(t, before, entries)
}

func TestGroupings(t *testing.T) {
	t.Parallel()

	june := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	entries, bal := build(t, 10_000,
		spec{at: hour(0), profit: 100, instrument: "xauusd", strategy: "breakout"},
		spec{at: hour(4), profit: -50, instrument: "EURUSD", strategy: "breakout", side: journal.Sell},
		spec{at: june.Add(13 * time.Hour), profit: 200, instrument: "XAUUSD"},
		spec{at: june.Add(20 * time.Hour), profit: 0, instrument: "GBPUSD", strategy: "news", side: journal.Sell},
	)

	byMonth := ByMonth(entries, bal)
	require.Len(t, byMonth, 2)
	assert.Equal(t, "2024-05", byMonth[0].Key)
	assert.True(t, dec(50).Equal(byMonth[0].Stats.NetProfit))
	assert.Equal(t, "2024-06", byMonth[1].Key)
	assert.Equal(t, 2.0, byMonth[1].Stats.ROI)

	byInstrument := ByInstrument(entries, bal)
	keys := []string{}
	for _, g := range byInstrument {
		keys = append(keys, g.Key)
	}
	assert.Equal(t, []string{"EURUSD", "GBPUSD", "XAUUSD"}, keys)
	assert.Equal(t, 2, byInstrument[2].Stats.TotalTrades)
	assert.Equal(t, ProfitFactorSentinel, byInstrument[2].Stats.ProfitFactor)

	byStrategy := ByStrategy(entries, bal)
	require.Len(t, byStrategy, 3)
	assert.Equal(t, Unspecified, byStrategy[0].Key)
	assert.Equal(t, "breakout", byStrategy[1].Key)
	assert.Equal(t, 50, byStrategy[1].Stats.WinRate)

	byHour := ByHourBucket(entries, bal)
	keys = keys[:0]
	for _, g := range byHour {
		keys = append(keys, g.Key)
	}
	assert.Equal(t, []string{"06-12", "12-18", "18-24"}, keys)
	assert.Equal(t, 1, byHour[0].Stats.TotalTrades)
	assert.Equal(t, 2, byHour[1].Stats.TotalTrades)

	byType := ByType(entries, bal)
	require.Len(t, byType, 2)
	assert.Equal(t, "Buy", byType[0].Key)
	assert.Equal(t, "Sell", byType[1].Key)
	assert.Equal(t, 1, byType[1].Stats.BreakEven)

	best, ok := Best(byInstrument)
	require.True(t, ok)
	assert.Equal(t, "XAUUSD", best.Key)
	_, ok = Best(nil)
	assert.False(t, ok)
}

func TestHourBucket(t *testing.T) {
	t.Parallel()

	jakarta := time.FixedZone("WIB", 7*3600)
	for h, want := range map[int]string{0: "00-06", 5: "00-06", 6: "06-12", 12: "12-18", 17: "12-18", 18: "18-24", 23: "18-24"} {
		e := journal.TradeEntry{Date: time.Date(2024, 1, 1, h, 30, 0, 0, jakarta)}
		assert.Equal(t, want, HourBucket(e), "hour %d", h)
	}
}

func TestWriteOrg(t *testing.T) {
	t.Parallel()

	entries, bal := build(t, 1_000_000,
		spec{at: hour(0), profit: 50_000, strategy: "breakout"},
		spec{at: hour(1), profit: -20_000},
		spec{at: hour(2), profit: 30_000, strategy: "breakout"},
	)
	r, err := NewReport("alice", entries, bal, "strategy", day0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteOrg(&buf, r))
	out := buf.String()

	assert.Contains(t, out, "* JOURNAL: alice")
	assert.Contains(t, out, ":NET_PL:      $60,000.00")
	assert.Contains(t, out, ":WIN_RATE:    67")
	assert.Contains(t, out, ":PROFIT_FAC:  4.00")
	assert.Contains(t, out, ":CREATED:     [2024-05-01 Wed 09:00]")
	assert.Contains(t, out, "** By strategy")
	assert.Contains(t, out, "| breakout | 2 | 100 | $80,000.00 | ∞ |")
	assert.Contains(t, out, "| Unspecified | 1 | 0 | -$20,000.00 | 0.00 |")

	_, err = NewReport("alice", entries, bal, "weekday", day0)
	assert.Error(t, err)
}
