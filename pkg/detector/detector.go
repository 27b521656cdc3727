// Package detector guesses the dominant language of a corpus.
// The normalizer only keeps ASCII a-z, so a non-English corpus is worth a warning.
package detector

import (
	"strings"

	"github.com/pemistahl/lingua-go"

	"github.com/dtnitsch/wordfreq/models"
)

// DefaultSampleBytes bounds how much text is fed to the detector.
const DefaultSampleBytes = 64 * 1024

// candidates are the languages most common in public-domain text corpora.
var candidates = []lingua.Language{
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
	lingua.Latin,
	lingua.Russian,
}

// Result is the outcome of a detection.
type Result struct {
	Name       string
	IsoCode    string
	Confidence float64
}

// IsEnglish reports whether the corpus looked English.
func (r Result) IsEnglish() bool {
	return r.IsoCode == "en"
}

type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector over the candidate languages.
// Low accuracy mode is enough for the multi-kilobyte samples used here.
func New() *Detector {
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(candidates...).
			WithLowAccuracyMode().
			Build(),
	}
}

// Detect returns the most likely language of text; ok is false if nothing could be decided.
func (d *Detector) Detect(text string) (Result, bool) {
	if strings.TrimSpace(text) == "" {
		return Result{}, false
	}
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return Result{}, false
	}
	return Result{
		Name:       lang.String(),
		IsoCode:    strings.ToLower(lang.IsoCode639_1().String()),
		Confidence: d.detector.ComputeLanguageConfidence(text, lang),
	}, true
}

// Sample joins leading lines until maxBytes of text is collected.
func Sample(lines []models.LineRecord, maxBytes int) string {
	var sb strings.Builder
	for _, l := range lines {
		if sb.Len() >= maxBytes {
			break
		}
		if strings.TrimSpace(l.Text) == "" {
			continue
		}
		sb.WriteString(l.Text)
		sb.WriteByte('\n')
	}
	s := sb.String()
	if len(s) > maxBytes {
		s = strings.ToValidUTF8(s[:maxBytes], "")
	}
	return s
}
