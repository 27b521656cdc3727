package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dtnitsch/wordfreq/models"
)

// ErrRunNotFound is returned when a run ID has no row.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded pipeline execution.
type Run struct {
	RunID              int64
	CreatedAt          time.Time
	InputPath          string
	InputFormat        string
	InputChecksum      sql.NullString
	InputSizeBytes     int64
	OutputPath         string
	Language           sql.NullString
	LanguageConfidence sql.NullFloat64
	Stats              models.RunStats
	DurationSeconds    float64
}

// NewNullString creates a sql.NullString from a string.
// Empty strings are treated as NULL.
func NewNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// NewNullFloat64 creates a sql.NullFloat64; zero is treated as NULL.
func NewNullFloat64(f float64) sql.NullFloat64 {
	if f == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

// InsertRun records a run and its full frequency table in one transaction.
func (db *DB) InsertRun(run Run, counts map[string]int) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after Commit

	s := run.Stats
	result, err := tx.Exec(`
		INSERT INTO runs (input_path, input_format, input_checksum, input_size_bytes, output_path,
			language, language_confidence, lines, raw_tokens, kept_tokens, distinct_words,
			partitions, reducers, retries, cache_hits, duration_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.InputPath, run.InputFormat, run.InputChecksum, run.InputSizeBytes, run.OutputPath,
		run.Language, run.LanguageConfidence, s.Lines, s.RawTokens, s.KeptTokens, s.DistinctWords,
		s.Partitions, s.Reducers, s.Retries, s.CacheHits, run.DurationSeconds)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO run_words (run_id, word, count) VALUES (?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare word insert: %w", err)
	}
	defer stmt.Close()

	for word, count := range counts {
		if _, err := stmt.Exec(runID, word, count); err != nil {
			return 0, fmt.Errorf("failed to insert word %q: %w", word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

const runColumns = `run_id, created_at, input_path, input_format, input_checksum, input_size_bytes,
	output_path, language, language_confidence, lines, raw_tokens, kept_tokens, distinct_words,
	partitions, reducers, retries, cache_hits, duration_seconds`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	err := row.Scan(&r.RunID, &r.CreatedAt, &r.InputPath, &r.InputFormat, &r.InputChecksum, &r.InputSizeBytes,
		&r.OutputPath, &r.Language, &r.LanguageConfidence, &r.Stats.Lines, &r.Stats.RawTokens,
		&r.Stats.KeptTokens, &r.Stats.DistinctWords, &r.Stats.Partitions, &r.Stats.Reducers,
		&r.Stats.Retries, &r.Stats.CacheHits, &r.DurationSeconds)
	return r, err
}

// GetRun returns a single run by ID.
func (db *DB) GetRun(runID int64) (*Run, error) {
	r, err := scanRun(db.QueryRow("SELECT "+runColumns+" FROM runs WHERE run_id = ?", runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &r, nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query("SELECT "+runColumns+" FROM runs ORDER BY run_id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LatestRunID returns the ID of the most recent run.
func (db *DB) LatestRunID() (int64, error) {
	var id int64
	err := db.QueryRow("SELECT run_id FROM runs ORDER BY run_id DESC LIMIT 1").Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: no runs recorded yet", ErrRunNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get latest run: %w", err)
	}
	return id, nil
}

// TopWords returns the n most frequent words of a run, ties broken by word ascending.
func (db *DB) TopWords(runID int64, n int) ([]models.FrequencyRecord, error) {
	rows, err := db.Query(`
		SELECT word, count FROM run_words
		WHERE run_id = ?
		ORDER BY count DESC, word ASC
		LIMIT ?
	`, runID, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query top words: %w", err)
	}
	defer rows.Close()

	var out []models.FrequencyRecord
	for rows.Next() {
		var r models.FrequencyRecord
		if err := rows.Scan(&r.Word, &r.Count); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// WordCount returns how often word occurred in a run (0 if absent).
func (db *DB) WordCount(runID int64, word string) (int, error) {
	var c int
	err := db.QueryRow("SELECT count FROM run_words WHERE run_id = ? AND word = ?", runID, word).Scan(&c)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get word count: %w", err)
	}
	return c, nil
}
