package manifest

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/wordfreq/models"
	"github.com/dtnitsch/wordfreq/pkg/artifact_manager"
	"github.com/dtnitsch/wordfreq/pkg/mapreduce"
)

// topKeywordCount is how many ranked words the manifest carries.
const topKeywordCount = 25

// Inputs gathers everything a manifest is built from.
type Inputs struct {
	Input      InputSummary
	OutputPath string
	Header     bool
	Parts      []artifact_manager.PartInfo
	Language   *Language
	Stats      models.RunStats
	Counts     map[string]int
	Duration   time.Duration
}

// Build assembles the manifest for a finished run.
func Build(in Inputs, now time.Time) SummaryManifest {
	m := SummaryManifest{
		GeneratedAt:     now.Format(time.RFC3339),
		Input:           in.Input,
		Language:        in.Language,
		Stats:           in.Stats,
		DurationSeconds: in.Duration.Seconds(),
		TopKeywords:     mapreduce.TopKeywords(in.Counts, topKeywordCount),
		Output: OutputSummary{
			Path:   in.OutputPath,
			Header: in.Header,
		},
	}
	for _, p := range in.Parts {
		m.Output.Parts = append(m.Output.Parts, Part{Name: p.Name, Rows: p.Rows, SizeBytes: p.SizeBytes})
	}
	return m
}

// GenerateSummary builds the manifest and stages it in the output directory.
// Returns the manifest so callers can reuse it for other reports.
func GenerateSummary(in Inputs, am *artifact_manager.Manager) (*SummaryManifest, error) {
	m := Build(in, time.Now())

	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("error marshalling manifest: %w", err)
	}

	if err := am.WriteFile(artifact_manager.ManifestFile, data); err != nil {
		return nil, fmt.Errorf("error saving manifest: %w", err)
	}

	return &m, nil
}
