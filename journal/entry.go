package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TradeType is the side of a trade.
type TradeType int

const (
	Buy TradeType = iota + 1
	Sell
)

func (t TradeType) String() string {
	switch t {
	case Buy:
		return "Buy"
	case Sell:
		return "Sell"
	}
	return fmt.Sprintf("TradeType(%d)", int(t))
}

// Valid reports whether t is Buy or Sell.
func (t TradeType) Valid() bool { return t == Buy || t == Sell }

// ParseTradeType accepts buy/sell and long/short in any case.
func ParseTradeType(s string) (TradeType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy", "long":
		return Buy, nil
	case "sell", "short":
		return Sell, nil
	}
	return 0, fmt.Errorf("unknown trade type %q", s)
}

func (t TradeType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid trade type %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *TradeType) UnmarshalText(b []byte) error {
	v, err := ParseTradeType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Result is the outcome of a trade. The zero value is Pending, which the
// ledger settles from the sign of the profit.
type Result int

const (
	Pending Result = iota
	Win
	Lose
	BreakEven
)

func (r Result) String() string {
	switch r {
	case Pending:
		return "Pending"
	case Win:
		return "Win"
	case Lose:
		return "Lose"
	case BreakEven:
		return "BreakEven"
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

// ParseResult maps the labels a journal user types to a Result. The empty
// string is Pending.
func ParseResult(s string) (Result, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "")) {
	case "", "pending":
		return Pending, nil
	case "win", "won":
		return Win, nil
	case "lose", "loss", "lost":
		return Lose, nil
	case "breakeven", "be", "break-even":
		return BreakEven, nil
	}
	return 0, fmt.Errorf("unknown result %q", s)
}

func (r Result) MarshalText() ([]byte, error) {
	if r < Pending || r > BreakEven {
		return nil, fmt.Errorf("invalid result %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Result) UnmarshalText(b []byte) error {
	v, err := ParseResult(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// ResultFor returns the settled result for a profit amount.
func ResultFor(profit decimal.Decimal) Result {
	switch profit.Sign() {
	case 1:
		return Win
	case -1:
		return Lose
	}
	return BreakEven
}

// TradeEntry is one journaled trade. BalanceAfter is derived by the ledger
// on every read and ignored on input.
type TradeEntry struct {
	ID            string          `json:"id" yaml:"id"`
	Date          time.Time       `json:"date" yaml:"date"`
	Instrument    string          `json:"instrument" yaml:"instrument"`
	Type          TradeType       `json:"type" yaml:"type"`
	Lot           decimal.Decimal `json:"lot" yaml:"lot"`
	EntryPrice    decimal.Decimal `json:"entryPrice" yaml:"entry_price"`
	ExitPrice     decimal.Decimal `json:"exitPrice" yaml:"exit_price"`
	StopLoss      decimal.Decimal `json:"stopLoss" yaml:"stop_loss"`
	TakeProfit    decimal.Decimal `json:"takeProfit" yaml:"take_profit"`
	Pips          int             `json:"pips" yaml:"pips"`
	Profit        decimal.Decimal `json:"profit" yaml:"profit"`
	Result        Result          `json:"result" yaml:"result"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter" yaml:"balance_after"`
	RiskReward    decimal.Decimal `json:"riskReward" yaml:"risk_reward"`
	Strategy      string          `json:"strategy" yaml:"strategy"`
	Market        string          `json:"market" yaml:"market"`
	EmotionBefore string          `json:"emotionBefore" yaml:"emotion_before"`
	EmotionAfter  string          `json:"emotionAfter" yaml:"emotion_after"`
	Notes         string          `json:"notes" yaml:"notes"`

	// Seq is the insertion sequence; it breaks ties between trades that
	// share a Date. The ledger assigns it.
	Seq int64 `json:"-" yaml:"-"`
}

// BalanceConfig is the account balance. Current always equals Initial plus
// the sum of every trade's profit.
type BalanceConfig struct {
	Initial  decimal.Decimal `json:"initialBalance" yaml:"initial_balance"`
	Current  decimal.Decimal `json:"currentBalance" yaml:"current_balance"`
	Currency string          `json:"currency" yaml:"currency"`
}

// Gain is Current minus Initial.
func (b BalanceConfig) Gain() decimal.Decimal {
	return b.Current.Sub(b.Initial)
}
