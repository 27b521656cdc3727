// Package models defines data structures for records, configuration and run stats.
package models

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultInputPath  = "/data/1342-0.txt"
	DefaultOutputPath = "/data/word_counts.csv"
	DefaultLogLevel   = "warn"
	DefaultDBPath     = "wordfreq.db"
)

// Config holds runtime configuration for a pipeline run.
// Values come from an optional YAML file and are overridden by CLI flags.
type Config struct {
	InputPath      string        `yaml:"input"`
	OutputPath     string        `yaml:"output"`
	InputFormat    InputFormat   `yaml:"input_format"`
	LogLevel       string        `yaml:"log_level"`
	Partitions     int           `yaml:"partitions"`
	Reducers       int           `yaml:"reducers"`
	WorkerCount    int           `yaml:"workers"`
	MaxRetries     int           `yaml:"max_retries"`
	TopN           int           `yaml:"top"`
	Header         bool          `yaml:"header"`
	Overwrite      bool          `yaml:"overwrite"`
	DBPath         string        `yaml:"db_path"`
	CacheDir       string        `yaml:"cache_dir"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	DetectLanguage bool          `yaml:"detect_language"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	return &Config{
		InputPath:      DefaultInputPath,
		OutputPath:     DefaultOutputPath,
		InputFormat:    InputFormatAuto,
		LogLevel:       DefaultLogLevel,
		Partitions:     8,
		Reducers:       4,
		WorkerCount:    runtime.NumCPU(),
		MaxRetries:     2,
		TopN:           10,
		DBPath:         DefaultDBPath,
		CacheTTL:       24 * time.Hour,
		DetectLanguage: true,
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
// Keys missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	var errs []error
	if c.InputPath == "" {
		errs = append(errs, errors.New("input path is empty"))
	}
	if c.OutputPath == "" {
		errs = append(errs, errors.New("output path is empty"))
	}
	if c.Partitions <= 0 {
		errs = append(errs, fmt.Errorf("partitions must be > 0, got %d", c.Partitions))
	}
	if c.Reducers <= 0 {
		errs = append(errs, fmt.Errorf("reducers must be > 0, got %d", c.Reducers))
	}
	if c.WorkerCount <= 0 {
		errs = append(errs, fmt.Errorf("workers must be > 0, got %d", c.WorkerCount))
	}
	if c.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("max-retries must be >= 0, got %d", c.MaxRetries))
	}
	if c.TopN < 0 {
		errs = append(errs, fmt.Errorf("top must be >= 0, got %d", c.TopN))
	}
	if _, err := ParseInputFormat(string(c.InputFormat)); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
