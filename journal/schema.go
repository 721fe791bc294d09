package journal

const Schema = `
CREATE TABLE IF NOT EXISTS transactions (
	tx_id TEXT PRIMARY KEY,
	side TEXT NOT NULL,
	instrument TEXT NOT NULL,
	price REAL NOT NULL,
	quantity REAL NOT NULL,
	time DATETIME NOT NULL,
	tick INTEGER NOT NULL,
	realized_pnl REAL,
	source TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_transactions_time ON transactions(time);

CREATE TABLE IF NOT EXISTS networth (
	time DATETIME NOT NULL,
	tick INTEGER NOT NULL,
	cash REAL NOT NULL,
	positions_value REAL NOT NULL,
	net_worth REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_networth_time ON networth(time);
`
