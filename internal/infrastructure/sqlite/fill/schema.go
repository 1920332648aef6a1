package fill

const schemaDDL = `
CREATE TABLE IF NOT EXISTS fills (
	sequence_number INTEGER NOT NULL,
	timestamp       INTEGER NOT NULL,
	side            TEXT NOT NULL,
	usd_volume      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fills_timestamp ON fills(timestamp);
`
