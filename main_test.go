package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestApp_RunThenTop(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "book.txt")
	if err := os.WriteFile(input, []byte("the cat sat on the mat the cat ran\n"), 0644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "word_counts.csv")
	dbPath := filepath.Join(dir, "history.db")

	app := newApp()
	app.Writer = &bytes.Buffer{}
	err := app.Run([]string{"wordfreq", "run",
		"--input", input,
		"--output", output,
		"--db-path", dbPath,
		"--reducers", "3",
		"--detect-language=false",
		"--quiet",
	})
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	for _, name := range []string{"part-00000.csv", "part-00001.csv", "part-00002.csv", "_SUCCESS"} {
		if _, err := os.Stat(filepath.Join(output, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}

	var out bytes.Buffer
	app = newApp()
	app.Writer = &out
	if err := app.Run([]string{"wordfreq", "top", "--db-path", dbPath, "--top", "1"}); err != nil {
		t.Fatalf("top error = %v", err)
	}
	if !strings.Contains(out.String(), "the") || !strings.Contains(out.String(), "only showing top 1 row") {
		t.Errorf("top output =\n%s", out.String())
	}
}

func TestApp_Quickstart(t *testing.T) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	if err := app.Run([]string{"wordfreq", "quickstart"}); err != nil {
		t.Fatalf("quickstart error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "# wordfreq Quick Start") {
		t.Errorf("quickstart output starts with %q", out.String()[:20])
	}
}
