package db

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dtnitsch/wordfreq/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for tests
	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	// Each pooled connection would get its own in-memory database
	database.SetMaxOpenConns(1)

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func sampleRun() Run {
	return Run{
		InputPath:      "/data/1342-0.txt",
		InputFormat:    "text",
		InputChecksum:  NewNullString("abc123"),
		InputSizeBytes: 36,
		OutputPath:     "/data/word_counts.csv",
		Language:       NewNullString("en"),
		Stats:          models.RunStats{Lines: 1, RawTokens: 9, KeptTokens: 9, DistinctWords: 6, Partitions: 1, Reducers: 2},
	}
}

var sampleCounts = map[string]int{"the": 3, "cat": 2, "sat": 1, "on": 1, "mat": 1, "ran": 1}

func TestInsertRun_GetRun(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.InsertRun(sampleRun(), sampleCounts)
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	if runID == 0 {
		t.Fatal("InsertRun() returned 0 run ID")
	}

	run, err := db.GetRun(runID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run.InputPath != "/data/1342-0.txt" {
		t.Errorf("InputPath = %q", run.InputPath)
	}
	if run.Stats.DistinctWords != 6 || run.Stats.Reducers != 2 {
		t.Errorf("Stats = %+v", run.Stats)
	}
	if !run.Language.Valid || run.Language.String != "en" {
		t.Errorf("Language = %+v, want en", run.Language)
	}
	if run.LanguageConfidence.Valid {
		t.Errorf("LanguageConfidence = %+v, want NULL", run.LanguageConfidence)
	}
	if run.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
}

func TestGetRun_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.GetRun(42); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRun() error = %v, want ErrRunNotFound", err)
	}
	if _, err := db.LatestRunID(); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LatestRunID() error = %v, want ErrRunNotFound", err)
	}
}

func TestTopWords_TieBreak(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	runID, err := db.InsertRun(sampleRun(), sampleCounts)
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}

	got, err := db.TopWords(runID, 4)
	if err != nil {
		t.Fatalf("TopWords() error = %v", err)
	}
	want := []models.FrequencyRecord{
		{Word: "the", Count: 3},
		{Word: "cat", Count: 2},
		{Word: "mat", Count: 1},
		{Word: "on", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopWords() = %v, want %v", got, want)
	}

	c, err := db.WordCount(runID, "cat")
	if err != nil || c != 2 {
		t.Errorf("WordCount(cat) = %d, %v; want 2", c, err)
	}
	c, err = db.WordCount(runID, "dog")
	if err != nil || c != 0 {
		t.Errorf("WordCount(dog) = %d, %v; want 0", c, err)
	}
}

func TestListRuns_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	first, _ := db.InsertRun(sampleRun(), sampleCounts)
	second, _ := db.InsertRun(sampleRun(), map[string]int{"a": 1})

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	if runs[0].RunID != second || runs[1].RunID != first {
		t.Errorf("run order = [%d %d], want [%d %d]", runs[0].RunID, runs[1].RunID, second, first)
	}

	latest, err := db.LatestRunID()
	if err != nil || latest != second {
		t.Errorf("LatestRunID() = %d, %v; want %d", latest, err, second)
	}
}

func TestOpen_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "wordfreq.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := db.InsertRun(sampleRun(), sampleCounts); err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	db.Close()

	// Reopen: schema already present
	db, err = Open(path)
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	defer db.Close()
	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}
	runs, err := db.ListRuns(0)
	if err != nil || len(runs) != 1 {
		t.Errorf("ListRuns() = %d runs, %v; want 1", len(runs), err)
	}
}
