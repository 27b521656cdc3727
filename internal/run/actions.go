// Package run executes the word-frequency pipeline from the command line.
package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/wordfreq/internal/common"
	"github.com/dtnitsch/wordfreq/models"
	"github.com/dtnitsch/wordfreq/pkg/artifact_manager"
	"github.com/dtnitsch/wordfreq/pkg/caching"
	"github.com/dtnitsch/wordfreq/pkg/db"
	"github.com/dtnitsch/wordfreq/pkg/detector"
	"github.com/dtnitsch/wordfreq/pkg/manifest"
	"github.com/dtnitsch/wordfreq/pkg/mapreduce"
	"github.com/dtnitsch/wordfreq/pkg/report"
	"github.com/dtnitsch/wordfreq/pkg/storage"
)

// Outcome is what a successful pipeline run produced.
type Outcome struct {
	Source   *storage.Source
	Result   *mapreduce.Result
	Ranked   []models.FrequencyRecord
	Parts    []artifact_manager.PartInfo
	Manifest *manifest.SummaryManifest
	Language *manifest.Language
	RunID    int64 // 0 when history is disabled or could not be written
}

func RunAction(c *cli.Context) error {
	cfg, err := ResolveConfig(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}

	level, err := common.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	logger := common.NewLogger(os.Stderr, level, c.Bool("quiet"))

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := Execute(ctx, cfg, os.Stdout, logger); err != nil {
		logger.Error("run failed", "error", err)
		return cli.Exit("", 2)
	}
	return nil
}

// Execute runs load, count, report and export with cfg, writing the two
// top-N views to out. Nothing is left at the output path on failure.
func Execute(ctx context.Context, cfg *models.Config, out io.Writer, logger *slog.Logger) (*Outcome, error) {
	startTime := time.Now()

	// Fail on an output conflict before any work is done
	am, err := artifact_manager.NewManager(cfg.OutputPath, cfg.Overwrite, cfg.Header)
	if err != nil {
		return nil, err
	}
	am.SetLogger(logger)

	lines, src, err := storage.New().LoadLines(ctx, cfg.InputPath, cfg.InputFormat)
	if err != nil {
		return nil, err
	}
	logger.Info("Input loaded", "path", src.Path, "format", src.Format, "lines", len(lines), "size_bytes", src.SizeBytes)

	outcome := &Outcome{Source: src}
	if cfg.DetectLanguage {
		outcome.Language = detectLanguage(lines, logger)
	}

	opts := mapreduce.Options{
		Partitions: cfg.Partitions,
		Reducers:   cfg.Reducers,
		Workers:    cfg.WorkerCount,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	}
	if cfg.CacheDir != "" {
		cache, err := caching.NewCache(cfg.CacheDir, cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
		opts.Cache = cache
	}

	result, err := mapreduce.Run(ctx, lines, opts)
	if err != nil {
		return nil, fmt.Errorf("word count failed: %w", err)
	}
	outcome.Result = result
	outcome.Ranked = mapreduce.Rank(result.Counts)

	if err := report.Show(out, outcome.Ranked, cfg.TopN, true); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	if err := report.Show(out, outcome.Ranked, cfg.TopN, false); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	if err := export(am, cfg, outcome, startTime); err != nil {
		return nil, err
	}
	logger.Info("Export complete", "output", am.OutputDir(), "parts", len(outcome.Parts), "distinct_words", result.Stats.DistinctWords)

	if cfg.DBPath != "" {
		runID, err := recordRun(cfg, outcome, time.Since(startTime))
		if err != nil {
			// The export is already committed; history is best effort
			logger.Warn("failed to record run history", "error", err, "db_path", cfg.DBPath)
		} else {
			outcome.RunID = runID
			logger.Info("Run recorded", "run_id", runID, "db_path", cfg.DBPath)
		}
	}

	return outcome, nil
}

func export(am *artifact_manager.Manager, cfg *models.Config, outcome *Outcome, startTime time.Time) (err error) {
	if err := am.Begin(); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			am.Abort()
		}
	}()

	parts, err := am.Export(outcome.Result.Shards)
	if err != nil {
		return fmt.Errorf("failed to export counts: %w", err)
	}
	outcome.Parts = parts

	src := outcome.Source
	outcome.Manifest, err = manifest.GenerateSummary(manifest.Inputs{
		Input: manifest.InputSummary{
			Path:      src.Path,
			Format:    string(src.Format),
			SizeBytes: src.SizeBytes,
			Checksum:  src.Checksum,
		},
		OutputPath: am.OutputDir(),
		Header:     cfg.Header,
		Parts:      parts,
		Language:   outcome.Language,
		Stats:      outcome.Result.Stats,
		Counts:     outcome.Result.Counts,
		Duration:   time.Since(startTime),
	}, am)
	if err != nil {
		return err
	}

	return am.Commit()
}

func detectLanguage(lines []models.LineRecord, logger *slog.Logger) *manifest.Language {
	res, ok := detector.New().Detect(detector.Sample(lines, detector.DefaultSampleBytes))
	if !ok {
		logger.Warn("could not determine corpus language")
		return nil
	}
	if !res.IsEnglish() {
		logger.Warn("corpus does not look English; non a-z letters will be dropped by normalization",
			"language", res.Name, "confidence", res.Confidence)
	} else {
		logger.Info("Corpus language detected", "language", res.Name, "confidence", res.Confidence)
	}
	return &manifest.Language{Name: res.Name, IsoCode: res.IsoCode, Confidence: res.Confidence}
}

func recordRun(cfg *models.Config, outcome *Outcome, elapsed time.Duration) (int64, error) {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	src := outcome.Source
	run := db.Run{
		InputPath:       src.Path,
		InputFormat:     string(src.Format),
		InputChecksum:   db.NewNullString(src.Checksum),
		InputSizeBytes:  src.SizeBytes,
		OutputPath:      cfg.OutputPath,
		Stats:           outcome.Result.Stats,
		DurationSeconds: elapsed.Seconds(),
	}
	if lang := outcome.Language; lang != nil {
		run.Language = db.NewNullString(lang.IsoCode)
		run.LanguageConfidence = db.NewNullFloat64(lang.Confidence)
	}
	return database.InsertRun(run, outcome.Result.Counts)
}

// ExitCode maps a pipeline error to the process exit status.
func ExitCode(err error) int {
	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 2
}
