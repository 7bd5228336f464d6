package ledger

// Timestamps are stored as text and parsed on read, so rows written by
// earlier tools with odd formats degrade to skipped rows instead of
// breaking a scan.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id INTEGER NOT NULL,
	account_id INTEGER NOT NULL,
	contract_id TEXT NOT NULL,
	ts TEXT NOT NULL,
	price REAL NOT NULL,
	size REAL NOT NULL,
	pnl REAL,
	fees REAL NOT NULL,
	side TEXT NOT NULL,
	voided TEXT NOT NULL,
	order_id INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_ts ON trades(ts);
CREATE INDEX IF NOT EXISTS idx_trades_account ON trades(account_id);
`
