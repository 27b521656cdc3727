package caching

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/dtnitsch/wordfreq/pkg/analytics"
)

func TestCountsRoundTrip(t *testing.T) {
	c, err := NewCache(filepath.Join(t.TempDir(), "cache"), time.Hour)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	if _, ok := c.GetCounts("partition-a"); ok {
		t.Fatal("GetCounts() hit on empty cache")
	}

	want := analytics.LineCounts{RawTokens: 12, KeptTokens: 9, Words: map[string]int{"the": 3, "cat": 2}}
	if err := c.SetCounts("partition-a", want); err != nil {
		t.Fatalf("SetCounts() error = %v", err)
	}

	got, ok := c.GetCounts("partition-a")
	if !ok {
		t.Fatal("GetCounts() miss after SetCounts")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GetCounts() = %+v, want %+v", got, want)
	}
}

func TestGet_Expired(t *testing.T) {
	dir := t.TempDir()
	c, _ := NewCache(dir, time.Minute)
	if err := c.Set("k", []byte("v")); err != nil {
		t.Fatal(err)
	}

	old := time.Now().Add(-2 * time.Minute)
	if err := os.Chtimes(filepath.Join(dir, c.key("k")), old, old); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("Get() returned an expired entry")
	}
}

func TestGetCounts_Corrupt(t *testing.T) {
	c, _ := NewCache(t.TempDir(), 0)
	if err := c.Set("k", []byte("words: [not, a, map")); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.GetCounts("k"); ok {
		t.Error("GetCounts() decoded a corrupt entry")
	}
}
