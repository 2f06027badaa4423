package db

// Timestamps are unix nanoseconds (UTC) so ordering is numeric.
const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Runs: one row per persisted snapshot
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp INTEGER NOT NULL UNIQUE,
    rating_count INTEGER NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp DESC);

-- Price history: append-only (timestamp, rating, price) records
CREATE TABLE IF NOT EXISTS price_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    rating INTEGER NOT NULL CHECK (rating BETWEEN 83 AND 90),
    timestamp INTEGER NOT NULL,
    price INTEGER NOT NULL CHECK (price >= 0),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    UNIQUE(timestamp, rating)
);

CREATE INDEX IF NOT EXISTS idx_history_rating_time ON price_history(rating, timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_history_time ON price_history(timestamp);
`
