package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Runs: one row per completed pipeline execution
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    input_path TEXT NOT NULL,
    input_format TEXT NOT NULL,
    input_checksum TEXT,
    input_size_bytes INTEGER DEFAULT 0,
    output_path TEXT NOT NULL,
    language TEXT,                 -- ISO 639-1 code, NULL if not detected
    language_confidence REAL,
    lines INTEGER DEFAULT 0,
    raw_tokens INTEGER DEFAULT 0,
    kept_tokens INTEGER DEFAULT 0,
    distinct_words INTEGER DEFAULT 0,
    partitions INTEGER DEFAULT 0,
    reducers INTEGER DEFAULT 0,
    retries INTEGER DEFAULT 0,
    cache_hits INTEGER DEFAULT 0,
    duration_seconds REAL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_checksum ON runs(input_checksum);

-- Run words: the full frequency table of each run
CREATE TABLE IF NOT EXISTS run_words (
    run_id INTEGER NOT NULL,
    word TEXT NOT NULL,
    count INTEGER NOT NULL CHECK (count >= 1),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    PRIMARY KEY (run_id, word)
);

CREATE INDEX IF NOT EXISTS idx_run_words_rank ON run_words(run_id, count DESC, word ASC);
`
