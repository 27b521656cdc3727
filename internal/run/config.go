package run

import (
	"fmt"
	"time"

	"github.com/dtnitsch/wordfreq/models"
)

// flagSource is the subset of *cli.Context used to read flags.
type flagSource interface {
	IsSet(name string) bool
	String(name string) string
	Int(name string) int
	Bool(name string) bool
	Duration(name string) time.Duration
}

// ResolveConfig builds the run configuration: defaults, then the optional
// YAML file from --config, then every flag that was explicitly set.
func ResolveConfig(c flagSource) (*models.Config, error) {
	cfg := models.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := models.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.IsSet("input") {
		cfg.InputPath = c.String("input")
	}
	if c.IsSet("output") {
		cfg.OutputPath = c.String("output")
	}
	if c.IsSet("input-format") {
		format, err := models.ParseInputFormat(c.String("input-format"))
		if err != nil {
			return nil, err
		}
		cfg.InputFormat = format
	} else if format, err := models.ParseInputFormat(string(cfg.InputFormat)); err == nil {
		// Canonicalize aliases from the config file ("txt", "htm")
		cfg.InputFormat = format
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("partitions") {
		cfg.Partitions = c.Int("partitions")
	}
	if c.IsSet("reducers") {
		cfg.Reducers = c.Int("reducers")
	}
	if c.IsSet("workers") {
		cfg.WorkerCount = c.Int("workers")
	}
	if c.IsSet("max-retries") {
		cfg.MaxRetries = c.Int("max-retries")
	}
	if c.IsSet("top") {
		cfg.TopN = c.Int("top")
	}
	if c.IsSet("header") {
		cfg.Header = c.Bool("header")
	}
	if c.IsSet("overwrite") {
		cfg.Overwrite = c.Bool("overwrite")
	}
	if c.IsSet("db-path") {
		cfg.DBPath = c.String("db-path")
	}
	if c.IsSet("cache-dir") {
		cfg.CacheDir = c.String("cache-dir")
	}
	if c.IsSet("cache-ttl") {
		cfg.CacheTTL = c.Duration("cache-ttl")
	}
	if c.IsSet("detect-language") {
		cfg.DetectLanguage = c.Bool("detect-language")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
