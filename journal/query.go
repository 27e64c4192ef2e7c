package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradelog/internal/apperrors"
	"github.com/rustyeddy/tradelog/target"
)

const tradeColumns = `trade_id, seq, trade_date, instrument, trade_type, lot, entry_price, exit_price,
	stop_loss, take_profit, pips, profit, result, risk_reward, strategy, market,
	emotion_before, emotion_after, notes`

// GetTrade returns a single stored trade. BalanceAfter is not set; only the
// ledger can derive it.
func (s *SQLiteStore) GetTrade(ctx context.Context, accountID, tradeID string) (TradeEntry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tradeColumns+`
		FROM trades
		WHERE account_id = ? AND trade_id = ?`, accountID, tradeID)

	t, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TradeEntry{}, fmt.Errorf("trade %q: %w", tradeID, apperrors.ErrTradeNotFound)
		}
		return TradeEntry{}, err
	}
	return t, nil
}

func (s *SQLiteStore) listTrades(ctx context.Context, accountID string) ([]TradeEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+tradeColumns+`
		FROM trades
		WHERE account_id = ?
		ORDER BY seq ASC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeEntry
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) getTarget(ctx context.Context, accountID string) (target.Config, error) {
	var (
		cfg           target.Config
		mode, tb, pct string
		tdate, start  string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT enabled, mode, target_balance, daily_target_percentage, target_date, description, start_date
		FROM targets
		WHERE account_id = ?`, accountID).Scan(&cfg.Enabled, &mode, &tb, &pct, &tdate, &cfg.Description, &start)
	if errors.Is(err, sql.ErrNoRows) {
		return target.Config{}, nil
	}
	if err != nil {
		return target.Config{}, err
	}

	if mode != "" {
		if cfg.Mode, err = target.ParseMode(mode); err != nil {
			return target.Config{}, err
		}
	}
	if cfg.TargetBalance, err = decimal.NewFromString(tb); err != nil {
		return target.Config{}, fmt.Errorf("target_balance: %w", err)
	}
	if cfg.DailyTargetPercentage, err = decimal.NewFromString(pct); err != nil {
		return target.Config{}, fmt.Errorf("daily_target_percentage: %w", err)
	}
	if cfg.TargetDate, err = parseTime(tdate); err != nil {
		return target.Config{}, fmt.Errorf("target_date: %w", err)
	}
	if cfg.StartDate, err = parseTime(start); err != nil {
		return target.Config{}, fmt.Errorf("start_date: %w", err)
	}
	return cfg, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(row scanner) (TradeEntry, error) {
	var (
		t                                    TradeEntry
		date, typ, result                    string
		lot, entry, exit, stop, take, profit string
		rr                                   string
	)
	err := row.Scan(
		&t.ID, &t.Seq, &date, &t.Instrument, &typ, &lot, &entry, &exit,
		&stop, &take, &t.Pips, &profit, &result, &rr, &t.Strategy, &t.Market,
		&t.EmotionBefore, &t.EmotionAfter, &t.Notes,
	)
	if err != nil {
		return TradeEntry{}, err
	}

	if t.Date, err = parseTime(date); err != nil {
		return TradeEntry{}, fmt.Errorf("trade %s date: %w", t.ID, err)
	}
	if t.Type, err = ParseTradeType(typ); err != nil {
		return TradeEntry{}, fmt.Errorf("trade %s: %w", t.ID, err)
	}
	if t.Result, err = ParseResult(result); err != nil {
		return TradeEntry{}, fmt.Errorf("trade %s: %w", t.ID, err)
	}

	for _, f := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&t.Lot, lot}, {&t.EntryPrice, entry}, {&t.ExitPrice, exit},
		{&t.StopLoss, stop}, {&t.TakeProfit, take}, {&t.Profit, profit}, {&t.RiskReward, rr},
	} {
		if *f.dst, err = decimal.NewFromString(f.src); err != nil {
			return TradeEntry{}, fmt.Errorf("trade %s: %w", t.ID, err)
		}
	}
	return t, nil
}
