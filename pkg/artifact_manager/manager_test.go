package artifact_manager

import (
	"bytes"
	"encoding/csv"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"
)

func readParts(t *testing.T, dir string) [][]string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "part-*.csv"))
	if err != nil {
		t.Fatalf("glob error: %v", err)
	}
	sort.Strings(matches)
	var rows [][]string
	for _, m := range matches {
		f, err := os.Open(m)
		if err != nil {
			t.Fatalf("open %s: %v", m, err)
		}
		recs, err := csv.NewReader(f).ReadAll()
		f.Close()
		if err != nil {
			t.Fatalf("read %s: %v", m, err)
		}
		rows = append(rows, recs...)
	}
	return rows
}

func TestExportCommit(t *testing.T) {
	out := filepath.Join(t.TempDir(), "word_counts.csv")

	m, err := NewManager(out, false, false)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if err := m.Begin(); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	shards := []map[string]int{{"the": 3, "cat": 2}, {}, {"mat": 1}}
	parts, err := m.Export(shards)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(parts) != 3 || parts[0].Name != "part-00000.csv" || parts[0].Rows != 2 || parts[1].Rows != 0 {
		t.Errorf("parts = %+v", parts)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatal("output visible before Commit")
	}
	if err := m.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(out, SuccessMarker)); err != nil {
		t.Errorf("missing %s: %v", SuccessMarker, err)
	}
	got := readParts(t, out)
	want := [][]string{{"cat", "2"}, {"the", "3"}, {"mat", "1"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}

	// No staging directories left behind
	siblings, _ := os.ReadDir(filepath.Dir(out))
	if len(siblings) != 1 {
		t.Errorf("parent contains %d entries, want only the output", len(siblings))
	}
}

func TestExport_Header(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	m, _ := NewManager(out, false, true)
	if err := m.Begin(); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Export([]map[string]int{{"a": 1}}); err != nil {
		t.Fatal(err)
	}
	if err := m.Commit(); err != nil {
		t.Fatal(err)
	}

	got := readParts(t, out)
	want := [][]string{{"word", "count"}, {"a", "1"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
}

func TestNewManager_OutputExists(t *testing.T) {
	out := t.TempDir()

	_, err := NewManager(out, false, false)
	if !errors.Is(err, ErrOutputExists) {
		t.Fatalf("NewManager() error = %v, want ErrOutputExists", err)
	}
}

func TestCommit_Overwrite(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	if err := os.MkdirAll(out, 0750); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(out, "part-00009.csv")
	if err := os.WriteFile(stale, []byte("old,1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := NewManager(out, true, false)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if err := m.Begin(); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Export([]map[string]int{{"new": 1}}); err != nil {
		t.Fatal(err)
	}
	if err := m.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale part survived overwrite")
	}
	if got := readParts(t, out); !reflect.DeepEqual(got, [][]string{{"new", "1"}}) {
		t.Errorf("rows = %v", got)
	}
}

func TestCommit_BackupCleanupFailureIsNotFatal(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	if err := os.MkdirAll(out, 0750); err != nil {
		t.Fatal(err)
	}

	var removed string
	orig := removeAll
	removeAll = func(path string) error {
		removed = path
		return errors.New("device busy")
	}
	defer func() { removeAll = orig }()

	var logs bytes.Buffer
	m, err := NewManager(out, true, false)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	m.SetLogger(slog.New(slog.NewJSONHandler(&logs, nil)))
	if err := m.Begin(); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Export([]map[string]int{{"new": 1}}); err != nil {
		t.Fatal(err)
	}
	if err := m.Commit(); err != nil {
		t.Fatalf("Commit() error = %v, want nil when only the old output remains", err)
	}

	if removed == "" {
		t.Fatal("previous output was never removed")
	}
	if !strings.Contains(logs.String(), "failed to remove previous output") {
		t.Errorf("missing warning, logs = %s", logs.String())
	}
	if got := readParts(t, out); !reflect.DeepEqual(got, [][]string{{"new", "1"}}) {
		t.Errorf("rows = %v", got)
	}
	_ = os.RemoveAll(removed)
}

func TestCommit_ConflictAppearsDuringRun(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	m, err := NewManager(out, false, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Begin(); err != nil {
		t.Fatal(err)
	}
	defer m.Abort()

	if err := os.MkdirAll(out, 0750); err != nil {
		t.Fatal(err)
	}
	if err := m.Commit(); !errors.Is(err, ErrOutputExists) {
		t.Fatalf("Commit() error = %v, want ErrOutputExists", err)
	}
}

func TestAbort(t *testing.T) {
	parent := t.TempDir()
	m, _ := NewManager(filepath.Join(parent, "out"), false, false)
	if err := m.Begin(); err != nil {
		t.Fatal(err)
	}
	m.Abort()

	entries, _ := os.ReadDir(parent)
	if len(entries) != 0 {
		t.Errorf("Abort() left %d entries behind", len(entries))
	}
}

func TestWritePart_RequiresBegin(t *testing.T) {
	m, _ := NewManager(filepath.Join(t.TempDir(), "out"), false, false)
	if _, err := m.WritePart(0, nil); err == nil {
		t.Error("WritePart() before Begin error = nil, want error")
	}
}
