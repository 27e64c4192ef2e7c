package journal

// Schema is applied on every open. Money and timestamps are TEXT: decimals
// keep every digit and RFC 3339 keeps the trader's UTC offset.
const Schema = `
CREATE TABLE IF NOT EXISTS accounts (
	account_id TEXT PRIMARY KEY,
	currency TEXT NOT NULL,
	initial_balance TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	account_id TEXT NOT NULL REFERENCES accounts(account_id) ON DELETE CASCADE,
	trade_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	trade_date TEXT NOT NULL,
	instrument TEXT NOT NULL,
	trade_type TEXT NOT NULL,
	lot TEXT NOT NULL,
	entry_price TEXT NOT NULL,
	exit_price TEXT NOT NULL,
	stop_loss TEXT NOT NULL,
	take_profit TEXT NOT NULL,
	pips INTEGER NOT NULL,
	profit TEXT NOT NULL,
	result TEXT NOT NULL,
	risk_reward TEXT NOT NULL,
	strategy TEXT NOT NULL,
	market TEXT NOT NULL,
	emotion_before TEXT NOT NULL,
	emotion_after TEXT NOT NULL,
	notes TEXT NOT NULL,
	PRIMARY KEY (account_id, trade_id)
);

CREATE INDEX IF NOT EXISTS idx_trades_account_seq ON trades(account_id, seq);

CREATE TABLE IF NOT EXISTS targets (
	account_id TEXT PRIMARY KEY REFERENCES accounts(account_id) ON DELETE CASCADE,
	enabled INTEGER NOT NULL,
	mode TEXT NOT NULL,
	target_balance TEXT NOT NULL,
	daily_target_percentage TEXT NOT NULL,
	target_date TEXT NOT NULL,
	description TEXT NOT NULL,
	start_date TEXT NOT NULL
);
`
