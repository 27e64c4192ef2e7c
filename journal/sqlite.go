package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradelog/internal/apperrors"
	"github.com/rustyeddy/tradelog/target"
)

// SQLiteStore persists accounts, their trades and their target.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the journal database at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateAccount inserts a new account.
func (s *SQLiteStore) CreateAccount(ctx context.Context, rec AccountRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE account_id = ?`, rec.ID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return fmt.Errorf("create account %q: %w", rec.ID, apperrors.ErrAccountExists)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO accounts (account_id, currency, initial_balance, created_at)
		VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Currency, rec.Initial.String(), formatTime(rec.CreatedAt),
	)
	return err
}

// ListAccounts returns every account id in name order.
func (s *SQLiteStore) ListAccounts(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT account_id FROM accounts ORDER BY account_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// LoadAccount reads an account with its trades (in insertion order) and
// target.
func (s *SQLiteStore) LoadAccount(ctx context.Context, accountID string) (AccountRecord, error) {
	rec := AccountRecord{ID: accountID}

	var initial, created string
	err := s.db.QueryRowContext(ctx, `
		SELECT currency, initial_balance, created_at
		FROM accounts
		WHERE account_id = ?`, accountID).Scan(&rec.Currency, &initial, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AccountRecord{}, fmt.Errorf("account %q: %w", accountID, apperrors.ErrAccountNotFound)
		}
		return AccountRecord{}, err
	}
	if rec.Initial, err = decimal.NewFromString(initial); err != nil {
		return AccountRecord{}, fmt.Errorf("account %q initial balance: %w", accountID, err)
	}
	if rec.CreatedAt, err = parseTime(created); err != nil {
		return AccountRecord{}, fmt.Errorf("account %q created_at: %w", accountID, err)
	}

	if rec.Trades, err = s.listTrades(ctx, accountID); err != nil {
		return AccountRecord{}, err
	}
	if rec.Target, err = s.getTarget(ctx, accountID); err != nil {
		return AccountRecord{}, err
	}
	return rec, nil
}

// PutBalance replaces the account's initial balance.
func (s *SQLiteStore) PutBalance(ctx context.Context, accountID string, initial decimal.Decimal) error {
	res, err := s.db.ExecContext(ctx, `UPDATE accounts SET initial_balance = ? WHERE account_id = ?`,
		initial.String(), accountID)
	if err != nil {
		return err
	}
	return requireRow(res, accountID)
}

// PutTrade inserts or replaces a trade.
func (s *SQLiteStore) PutTrade(ctx context.Context, accountID string, t TradeEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO trades
		(account_id, trade_id, seq, trade_date, instrument, trade_type, lot, entry_price, exit_price,
		 stop_loss, take_profit, pips, profit, result, risk_reward, strategy, market,
		 emotion_before, emotion_after, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		accountID, t.ID, t.Seq, formatTime(t.Date), t.Instrument, t.Type.String(),
		t.Lot.String(), t.EntryPrice.String(), t.ExitPrice.String(),
		t.StopLoss.String(), t.TakeProfit.String(), t.Pips, t.Profit.String(),
		t.Result.String(), t.RiskReward.String(), t.Strategy, t.Market,
		t.EmotionBefore, t.EmotionAfter, t.Notes,
	)
	return err
}

// DeleteTrade removes a trade.
func (s *SQLiteStore) DeleteTrade(ctx context.Context, accountID, tradeID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trades WHERE account_id = ? AND trade_id = ?`,
		accountID, tradeID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("trade %q: %w", tradeID, apperrors.ErrTradeNotFound)
	}
	return nil
}

// PutTarget inserts or replaces the account's target.
func (s *SQLiteStore) PutTarget(ctx context.Context, accountID string, cfg target.Config) error {
	mode := ""
	if cfg.Mode != 0 {
		mode = cfg.Mode.String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO targets
		(account_id, enabled, mode, target_balance, daily_target_percentage, target_date, description, start_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		accountID, cfg.Enabled, mode, cfg.TargetBalance.String(), cfg.DailyTargetPercentage.String(),
		formatTime(cfg.TargetDate), cfg.Description, formatTime(cfg.StartDate),
	)
	return err
}

func requireRow(res sql.Result, accountID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("account %q: %w", accountID, apperrors.ErrAccountNotFound)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
