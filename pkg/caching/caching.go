package caching

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/wordfreq/pkg/analytics"
)

// Cache provides a simple file-based cache with a TTL.
type Cache struct {
	path string
	ttl  time.Duration
}

// NewCache creates a new Cache instance.
// The cache path will be created if it doesn't exist.
func NewCache(path string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{
		path: path,
		ttl:  ttl,
	}, nil
}

// key generates a SHA256 hash of the caller's key to use as a filename.
func (c *Cache) key(k string) string {
	hash := sha256.Sum256([]byte(k))
	return fmt.Sprintf("%x", hash)
}

// Get retrieves an item from the cache.
// It returns the data and true if the item is found and not expired.
// Otherwise, it returns nil and false.
func (c *Cache) Get(k string) ([]byte, bool) {
	filePath := filepath.Join(c.path, c.key(k))

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, false // Cache miss
	}

	// Check if expired
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return nil, false // Cache miss (expired)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, false // Cache miss (read error)
	}

	return data, true // Cache hit
}

// Set adds an item to the cache.
// The file is written under a temporary name and renamed so readers never see a partial entry.
func (c *Cache) Set(k string, data []byte) error {
	filePath := filepath.Join(c.path, c.key(k))
	tmp, err := os.CreateTemp(c.path, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

// partialEntry is the on-disk form of one partition's counts.
type partialEntry struct {
	RawTokens  int            `yaml:"raw_tokens"`
	KeptTokens int            `yaml:"kept_tokens"`
	Words      map[string]int `yaml:"words"`
}

// GetCounts returns cached partial counts. Undecodable entries count as misses.
func (c *Cache) GetCounts(k string) (analytics.LineCounts, bool) {
	data, ok := c.Get(k)
	if !ok {
		return analytics.LineCounts{}, false
	}
	var e partialEntry
	if err := yaml.Unmarshal(data, &e); err != nil {
		return analytics.LineCounts{}, false
	}
	if e.Words == nil {
		e.Words = make(map[string]int)
	}
	return analytics.LineCounts{RawTokens: e.RawTokens, KeptTokens: e.KeptTokens, Words: e.Words}, true
}

// SetCounts stores partial counts for later runs.
func (c *Cache) SetCounts(k string, counts analytics.LineCounts) error {
	data, err := yaml.Marshal(partialEntry{
		RawTokens:  counts.RawTokens,
		KeptTokens: counts.KeptTokens,
		Words:      counts.Words,
	})
	if err != nil {
		return fmt.Errorf("failed to encode partial counts: %w", err)
	}
	return c.Set(k, data)
}
