// Package account owns the live state of each trading account. Writers to
// one account are serialized; every committed change publishes a new
// immutable snapshot, so readers never take a lock.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradelog/internal/apperrors"
	"github.com/rustyeddy/tradelog/internal/validation"
	"github.com/rustyeddy/tradelog/journal"
	"github.com/rustyeddy/tradelog/market"
	"github.com/rustyeddy/tradelog/stats"
	"github.com/rustyeddy/tradelog/target"
)

// Store persists accounts. journal.SQLiteStore implements it.
type Store interface {
	CreateAccount(ctx context.Context, rec journal.AccountRecord) error
	LoadAccount(ctx context.Context, accountID string) (journal.AccountRecord, error)
	ListAccounts(ctx context.Context) ([]string, error)
	PutTrade(ctx context.Context, accountID string, t journal.TradeEntry) error
	DeleteTrade(ctx context.Context, accountID, tradeID string) error
	PutBalance(ctx context.Context, accountID string, initial decimal.Decimal) error
	PutTarget(ctx context.Context, accountID string, cfg target.Config) error
}

var _ Store = (*journal.SQLiteStore)(nil)

// Snapshot is a committed, read-only view of an account.
type Snapshot struct {
	Account string
	Version uint64
	Target  target.Config

	ledger *journal.Ledger
}

// Entries returns the trades in chronological order with BalanceAfter set.
func (s *Snapshot) Entries() []journal.TradeEntry { return s.ledger.Entries() }

// Entry returns one trade.
func (s *Snapshot) Entry(tradeID string) (journal.TradeEntry, error) { return s.ledger.Entry(tradeID) }

// Balance returns the account balance.
func (s *Snapshot) Balance() journal.BalanceConfig {
	bal, _ := s.ledger.Balance()
	return bal
}

// Stats recomputes the account statistics.
func (s *Snapshot) Stats() stats.Stats {
	return stats.Compute(s.Entries(), s.Balance())
}

// Progress evaluates the account target at now.
func (s *Snapshot) Progress(now time.Time) (target.Progress, error) {
	bal := s.Balance()
	return target.Evaluate(s.Target, bal.Initial, bal.Current, now)
}

type state struct {
	mu   sync.Mutex // serializes writers
	snap atomic.Pointer[Snapshot]
}

// Manager holds the live accounts.
type Manager struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
	newID  func() string

	mu       sync.Mutex
	accounts map[string]*state
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDs replaces the trade id generator.
func WithIDs(gen func() string) Option {
	return func(m *Manager) { m.newID = gen }
}

// NewManager returns a manager backed by store.
func NewManager(store Store, logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		store:    store,
		logger:   logger,
		now:      time.Now,
		accounts: make(map[string]*state),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) ledger(l *journal.Ledger) *journal.Ledger {
	if m.newID != nil {
		l.WithIDs(m.newID)
	}
	return l
}

// Create registers a new account with its opening balance.
func (m *Manager) Create(ctx context.Context, accountID, currency string, initial decimal.Decimal) (*Snapshot, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, &validation.Error{Fields: map[string]string{"account": "account id is required"}}
	}
	l, err := journal.NewLedger(initial, currency)
	if err != nil {
		return nil, err
	}
	bal, _ := l.Balance()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[accountID]; ok {
		return nil, fmt.Errorf("create account %q: %w", accountID, apperrors.ErrAccountExists)
	}
	err = m.store.CreateAccount(ctx, journal.AccountRecord{
		ID:        accountID,
		Currency:  bal.Currency,
		Initial:   initial,
		CreatedAt: m.now(),
	})
	if err != nil {
		return nil, err
	}

	st := &state{}
	snap := &Snapshot{Account: accountID, Version: 1, ledger: m.ledger(l)}
	st.snap.Store(snap)
	m.accounts[accountID] = st

	m.logger.Info("account created",
		zap.String("account", accountID),
		zap.String("currency", bal.Currency),
		zap.String("initial", initial.String()))
	return snap, nil
}

func (m *Manager) open(ctx context.Context, accountID string) (*state, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if st, ok := m.accounts[accountID]; ok {
		return st, nil
	}
	rec, err := m.store.LoadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	l, err := rec.Ledger()
	if err != nil {
		return nil, fmt.Errorf("load account %q: %w", accountID, err)
	}

	st := &state{}
	st.snap.Store(&Snapshot{Account: accountID, Version: 1, Target: rec.Target, ledger: m.ledger(l)})
	m.accounts[accountID] = st
	m.logger.Debug("account loaded", zap.String("account", accountID), zap.Int("trades", l.Len()))
	return st, nil
}

// Snapshot returns the latest committed view of an account, loading it from
// the store on first use.
func (m *Manager) Snapshot(ctx context.Context, accountID string) (*Snapshot, error) {
	st, err := m.open(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return st.snap.Load(), nil
}

// Accounts lists every stored account id.
func (m *Manager) Accounts(ctx context.Context) ([]string, error) {
	return m.store.ListAccounts(ctx)
}

// commit runs apply against a private copy of the current snapshot. The copy
// is published only when apply and persist both succeed.
func (m *Manager) commit(ctx context.Context, op, accountID string,
	apply func(next *Snapshot) error,
	persist func(next *Snapshot) error,
) (*Snapshot, error) {
	st, err := m.open(ctx, accountID)
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	cur := st.snap.Load()
	next := &Snapshot{
		Account: cur.Account,
		Version: cur.Version + 1,
		Target:  cur.Target,
		ledger:  cur.ledger.Clone(),
	}
	if err := apply(next); err != nil {
		m.logger.Warn(op+" rejected", zap.String("account", accountID), zap.Error(err))
		return nil, err
	}
	if err := persist(next); err != nil {
		m.logger.Error(op+" not persisted", zap.String("account", accountID), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	st.snap.Store(next)
	return next, nil
}

// AppendTrade records a new trade.
func (m *Manager) AppendTrade(ctx context.Context, accountID string, e journal.TradeEntry) (journal.TradeEntry, error) {
	var stored journal.TradeEntry
	snap, err := m.commit(ctx, "append trade", accountID,
		func(next *Snapshot) (err error) {
			stored, err = next.ledger.Append(e)
			return err
		},
		func(next *Snapshot) error {
			return m.store.PutTrade(ctx, accountID, stored)
		})
	if err != nil {
		return journal.TradeEntry{}, err
	}
	m.logger.Info("trade appended",
		zap.String("account", accountID),
		zap.String("trade", stored.ID),
		zap.String("profit", stored.Profit.String()),
		zap.String("balance", snap.Balance().Current.String()))
	return stored, nil
}

// EditTrade replaces the data of an existing trade.
func (m *Manager) EditTrade(ctx context.Context, accountID, tradeID string, e journal.TradeEntry) (journal.TradeEntry, error) {
	var stored journal.TradeEntry
	snap, err := m.commit(ctx, "edit trade", accountID,
		func(next *Snapshot) (err error) {
			stored, err = next.ledger.Edit(tradeID, e)
			return err
		},
		func(next *Snapshot) error {
			return m.store.PutTrade(ctx, accountID, stored)
		})
	if err != nil {
		return journal.TradeEntry{}, err
	}
	m.logger.Info("trade edited",
		zap.String("account", accountID),
		zap.String("trade", tradeID),
		zap.String("balance", snap.Balance().Current.String()))
	return stored, nil
}

// DeleteTrade removes a trade.
func (m *Manager) DeleteTrade(ctx context.Context, accountID, tradeID string) error {
	snap, err := m.commit(ctx, "delete trade", accountID,
		func(next *Snapshot) error {
			return next.ledger.Delete(tradeID)
		},
		func(next *Snapshot) error {
			return m.store.DeleteTrade(ctx, accountID, tradeID)
		})
	if err != nil {
		return err
	}
	m.logger.Info("trade deleted",
		zap.String("account", accountID),
		zap.String("trade", tradeID),
		zap.String("balance", snap.Balance().Current.String()))
	return nil
}

// ResetBalance replaces the initial balance. Trades are kept.
func (m *Manager) ResetBalance(ctx context.Context, accountID string, initial decimal.Decimal) (journal.BalanceConfig, error) {
	snap, err := m.commit(ctx, "reset balance", accountID,
		func(next *Snapshot) error {
			return next.ledger.Reset(initial)
		},
		func(next *Snapshot) error {
			return m.store.PutBalance(ctx, accountID, initial)
		})
	if err != nil {
		return journal.BalanceConfig{}, err
	}
	bal := snap.Balance()
	m.logger.Info("balance reset",
		zap.String("account", accountID),
		zap.String("initial", bal.Initial.String()),
		zap.String("balance", bal.Current.String()))
	return bal, nil
}

// SetTarget validates and enables cfg. A zero StartDate starts the target
// now. Replacing a completed or expired target makes it active again.
func (m *Manager) SetTarget(ctx context.Context, accountID string, cfg target.Config) (target.Config, error) {
	now := m.now()
	cfg.Enabled = true
	if cfg.StartDate.IsZero() {
		cfg.StartDate = now
	}
	snap, err := m.commit(ctx, "set target", accountID,
		func(next *Snapshot) error {
			if err := target.Validate(cfg, next.Balance().Initial, now); err != nil {
				return err
			}
			next.Target = cfg
			return nil
		},
		func(next *Snapshot) error {
			return m.store.PutTarget(ctx, accountID, next.Target)
		})
	if err != nil {
		return target.Config{}, err
	}
	m.logger.Info("target set",
		zap.String("account", accountID),
		zap.Stringer("mode", cfg.Mode),
		zap.Time("start", cfg.StartDate))
	return snap.Target, nil
}

// DisableTarget turns the target off. Its settings are kept.
func (m *Manager) DisableTarget(ctx context.Context, accountID string) error {
	_, err := m.commit(ctx, "disable target", accountID,
		func(next *Snapshot) error {
			next.Target.Enabled = false
			return nil
		},
		func(next *Snapshot) error {
			return m.store.PutTarget(ctx, accountID, next.Target)
		})
	if err != nil {
		return err
	}
	m.logger.Info("target disabled", zap.String("account", accountID))
	return nil
}

// Stats recomputes an account's statistics from its latest snapshot.
func (m *Manager) Stats(ctx context.Context, accountID string) (stats.Stats, error) {
	snap, err := m.Snapshot(ctx, accountID)
	if err != nil {
		return stats.Stats{}, err
	}
	return snap.Stats(), nil
}

// Progress evaluates an account's target at the manager's clock.
func (m *Manager) Progress(ctx context.Context, accountID string) (target.Progress, error) {
	snap, err := m.Snapshot(ctx, accountID)
	if err != nil {
		return target.Progress{}, err
	}
	return snap.Progress(m.now())
}

// Leaderboard ranks accounts by USD-normalized results. With no ids every
// stored account is ranked.
func (m *Manager) Leaderboard(ctx context.Context, accountIDs ...string) (market.Leaderboard, error) {
	if len(accountIDs) == 0 {
		ids, err := m.Accounts(ctx)
		if err != nil {
			return market.Leaderboard{}, err
		}
		accountIDs = ids
	}

	standings := make([]market.Standing, 0, len(accountIDs))
	var errs []error
	for _, id := range accountIDs {
		snap, err := m.Snapshot(ctx, id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		bal := snap.Balance()
		s := snap.Stats()
		standings = append(standings, market.Standing{
			Account:   id,
			Currency:  bal.Currency,
			NetProfit: s.NetProfit,
			Balance:   bal.Current,
			ROI:       s.ROI,
			Trades:    s.TotalTrades,
		})
	}
	if err := errors.Join(errs...); err != nil {
		return market.Leaderboard{}, err
	}
	return market.NormalizeLeaderboard(standings), nil
}
