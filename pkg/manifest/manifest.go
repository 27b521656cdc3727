package manifest

import "github.com/dtnitsch/wordfreq/models"

// SummaryManifest is written next to the part files as _manifest.yaml.
// It gives a lightweight overview of a run without reading the CSV parts.
type SummaryManifest struct {
	GeneratedAt     string          `yaml:"generated_at"`
	Input           InputSummary    `yaml:"input"`
	Output          OutputSummary   `yaml:"output"`
	Language        *Language       `yaml:"language,omitempty"`
	Stats           models.RunStats `yaml:"stats"`
	DurationSeconds float64         `yaml:"duration_seconds"`
	TopKeywords     []string        `yaml:"top_keywords"`
}

// InputSummary identifies the corpus that was read.
type InputSummary struct {
	Path      string `yaml:"path"`
	Format    string `yaml:"format"`
	SizeBytes int64  `yaml:"size_bytes"`
	Checksum  string `yaml:"checksum"`
}

// OutputSummary lists the part files of the export.
type OutputSummary struct {
	Path   string `yaml:"path"`
	Header bool   `yaml:"header"`
	Parts  []Part `yaml:"parts"`
}

// Part is one CSV file of the export.
type Part struct {
	Name      string `yaml:"name"`
	Rows      int    `yaml:"rows"`
	SizeBytes int64  `yaml:"size_bytes"`
}

// Language is the detected dominant language of the corpus.
type Language struct {
	Name       string  `yaml:"name"`
	IsoCode    string  `yaml:"iso_code"`
	Confidence float64 `yaml:"confidence"`
}
