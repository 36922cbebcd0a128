// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS fills (
	session_id TEXT NOT NULL,
	trade_id INTEGER NOT NULL,
	time DATETIME NOT NULL,
	tick_seq INTEGER NOT NULL,
	instrument TEXT NOT NULL,
	side TEXT NOT NULL,
	quantity TEXT NOT NULL,
	price TEXT NOT NULL,
	notional TEXT NOT NULL,
	avg_cost TEXT NOT NULL,
	position TEXT NOT NULL,
	realized_pnl TEXT NOT NULL,
	cum_realized_pnl TEXT NOT NULL,
	PRIMARY KEY (session_id, trade_id)
);

CREATE TABLE IF NOT EXISTS equity (
	session_id TEXT NOT NULL,
	time DATETIME NOT NULL,
	cash TEXT NOT NULL,
	equity TEXT NOT NULL,
	realized_pnl TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fills_session ON fills(session_id, trade_id);
CREATE INDEX IF NOT EXISTS idx_equity_time ON equity(time);
`
