package mapreduce

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"
	"sync"

	"github.com/dtnitsch/wordfreq/internal/common"
	"github.com/dtnitsch/wordfreq/models"
	"github.com/dtnitsch/wordfreq/pkg/analytics"
)

// ErrRetriesExhausted is returned when a map task keeps failing after all retries.
var ErrRetriesExhausted = errors.New("map task retries exhausted")

// cacheKeyVersion changes whenever tokenization or normalization rules change,
// so stale partial counts are never reused.
const cacheKeyVersion = "wordfreq-v1"

// Partition is an independently processable slice of the input lines.
type Partition struct {
	Index int
	Lines []models.LineRecord
}

// MapFunc computes the partial counts of one partition.
// It must be deterministic: a retried partition has to produce the same counts.
type MapFunc func(ctx context.Context, p Partition) (analytics.LineCounts, error)

// PartialCache stores partial counts between runs, keyed by partition content.
type PartialCache interface {
	GetCounts(key string) (analytics.LineCounts, bool)
	SetCounts(key string, counts analytics.LineCounts) error
}

// Options controls how Run divides and executes the work.
type Options struct {
	Partitions int
	Reducers   int
	Workers    int
	MaxRetries int
	Mapper     MapFunc      // nil uses Analytics.WordFrequency
	Cache      PartialCache // nil disables checkpointing
	Logger     *slog.Logger
}

// Result is the merged output of a run.
type Result struct {
	// Counts holds one entry per distinct word.
	Counts map[string]int
	// Shards are the reducer outputs; their key sets are disjoint.
	Shards []map[string]int
	Stats  models.RunStats
}

// Map generates the partial word counts for a single partition's lines.
func Map(lines []models.LineRecord, a *analytics.Analytics) analytics.LineCounts {
	return a.WordFrequency(lines)
}

// Reduce aggregates a slice of word frequency maps into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)

	for _, counts := range intermediate {
		for word, count := range counts {
			finalResults[word] += count
		}
	}

	return finalResults
}

// SplitPartitions divides lines into at most n contiguous, near-equal partitions.
// The split depends only on len(lines) and n.
func SplitPartitions(lines []models.LineRecord, n int) []Partition {
	if n <= 0 {
		n = 1
	}
	if n > len(lines) {
		n = len(lines)
	}
	parts := make([]Partition, 0, n)
	if n == 0 {
		return parts
	}

	size := len(lines) / n
	extra := len(lines) % n
	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i < extra {
			end++
		}
		parts = append(parts, Partition{Index: i, Lines: lines[start:end]})
		start = end
	}
	return parts
}

// ReducerFor picks the reducer that owns a word.
func ReducerFor(word string, reducers int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(word))
	return int(h.Sum32()&0x7fffffff) % reducers
}

// Shuffle routes every entry of every partial map to its reducer.
// buckets[r] holds the partial maps destined for reducer r.
func Shuffle(partials []map[string]int, reducers int) [][]map[string]int {
	buckets := make([][]map[string]int, reducers)
	for _, partial := range partials {
		split := make([]map[string]int, reducers)
		for word, count := range partial {
			r := ReducerFor(word, reducers)
			if split[r] == nil {
				split[r] = make(map[string]int)
			}
			split[r][word] += count
		}
		for r, m := range split {
			if m != nil {
				buckets[r] = append(buckets[r], m)
			}
		}
	}
	return buckets
}

// PartitionKey identifies a partition's content for the checkpoint cache.
func PartitionKey(p Partition) string {
	var sb strings.Builder
	sb.WriteString(cacheKeyVersion)
	for _, l := range p.Lines {
		sb.WriteByte('\n')
		sb.WriteString(l.Text)
	}
	return common.ContentHash([]byte(sb.String()))
}

type mapResult struct {
	index   int
	counts  analytics.LineCounts
	retries int
	cached  bool
	err     error
}

// Run executes map, shuffle and reduce over lines.
// The first map task to exhaust its retries cancels the remaining work.
func Run(ctx context.Context, lines []models.LineRecord, opts Options) (*Result, error) {
	opts = withDefaults(opts)
	logger := opts.Logger

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	parts := SplitPartitions(lines, opts.Partitions)
	logger.Info("Starting map phase", "lines", len(lines), "partitions", len(parts), "workers", opts.Workers)

	jobs := make(chan Partition, len(parts))
	results := make(chan mapResult, len(parts))

	var wg sync.WaitGroup
	for w := 1; w <= opts.Workers; w++ {
		wg.Add(1)
		go worker(ctx, w, opts, &wg, jobs, results)
	}
	for _, p := range parts {
		jobs <- p
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	stats := models.RunStats{
		Lines:      len(lines),
		Partitions: len(parts),
		Reducers:   opts.Reducers,
	}
	partials := make([]map[string]int, len(parts))
	var runErr error
	for res := range results {
		if res.err != nil {
			if runErr == nil {
				runErr = res.err
				cancel()
			}
			continue
		}
		partials[res.index] = res.counts.Words
		stats.RawTokens += res.counts.RawTokens
		stats.KeptTokens += res.counts.KeptTokens
		stats.Retries += res.retries
		if res.cached {
			stats.CacheHits++
		}
	}
	if runErr != nil {
		return nil, runErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger.Info("Map phase complete", "partials", len(partials), "retries", stats.Retries, "cache_hits", stats.CacheHits)

	shards := reduceShards(Shuffle(partials, opts.Reducers))

	counts := make(map[string]int)
	for _, shard := range shards {
		for word, c := range shard {
			counts[word] = c
		}
	}
	stats.DistinctWords = len(counts)
	logger.Info("Reduce phase complete", "reducers", opts.Reducers, "distinct_words", stats.DistinctWords)

	return &Result{Counts: counts, Shards: shards, Stats: stats}, nil
}

func withDefaults(opts Options) Options {
	if opts.Partitions <= 0 {
		opts.Partitions = 1
	}
	if opts.Reducers <= 0 {
		opts.Reducers = 1
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Mapper == nil {
		a := &analytics.Analytics{}
		opts.Mapper = func(_ context.Context, p Partition) (analytics.LineCounts, error) {
			return Map(p.Lines, a), nil
		}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return opts
}

// reduceShards sums each reducer's bucket concurrently.
func reduceShards(buckets [][]map[string]int) []map[string]int {
	shards := make([]map[string]int, len(buckets))
	var wg sync.WaitGroup
	for r, bucket := range buckets {
		wg.Add(1)
		go func(r int, bucket []map[string]int) {
			defer wg.Done()
			shards[r] = Reduce(bucket)
		}(r, bucket)
	}
	wg.Wait()
	return shards
}

// worker processes partitions from the jobs channel until it is drained.
func worker(ctx context.Context, id int, opts Options, wg *sync.WaitGroup, jobs <-chan Partition, results chan<- mapResult) {
	defer wg.Done()
	for p := range jobs {
		if ctx.Err() != nil {
			results <- mapResult{index: p.Index, err: ctx.Err()}
			continue
		}
		results <- runTask(ctx, id, opts, p)
	}
}

// runTask executes one map task, consulting the cache first and retrying failures.
func runTask(ctx context.Context, workerID int, opts Options, p Partition) mapResult {
	logger := opts.Logger
	res := mapResult{index: p.Index}

	var key string
	if opts.Cache != nil {
		key = PartitionKey(p)
		if counts, ok := opts.Cache.GetCounts(key); ok {
			logger.Debug("Partition cache hit", "worker_id", workerID, "partition", p.Index)
			res.counts = counts
			res.cached = true
			return res
		}
	}

	attempts := opts.MaxRetries + 1
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			res.err = err
			return res
		}
		counts, err := safeMap(ctx, opts.Mapper, p)
		if err == nil {
			res.counts = counts
			res.retries = attempt
			if opts.Cache != nil {
				if err := opts.Cache.SetCounts(key, counts); err != nil {
					logger.Warn("Failed to cache partial counts", "partition", p.Index, "error", err)
				}
			}
			return res
		}
		lastErr = err
		logger.Warn("Map task failed", "worker_id", workerID, "partition", p.Index, "attempt", attempt+1, "max_attempts", attempts, "error", err)
	}

	res.retries = opts.MaxRetries
	res.err = fmt.Errorf("%w: partition %d after %d attempts: %w", ErrRetriesExhausted, p.Index, attempts, lastErr)
	return res
}

// safeMap turns a panicking map task into an ordinary failure.
func safeMap(ctx context.Context, fn MapFunc, p Partition) (counts analytics.LineCounts, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("map task panicked: %v", r)
		}
	}()
	return fn(ctx, p)
}
