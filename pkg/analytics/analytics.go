package analytics

import (
	"regexp"
	"strings"

	"github.com/dtnitsch/wordfreq/models"
)

// wordPattern is applied to an already lowercased token; only the first match is kept.
var wordPattern = regexp.MustCompile(`[a-z]+`)

type Analytics struct{}

// Tokenize splits a line on the space character.
// Consecutive spaces yield empty tokens; they are dropped later by Filter.
// Tabs and other whitespace are not delimiters.
func Tokenize(line string) []string {
	return strings.Split(line, " ")
}

// Normalize lowercases a token and returns its first maximal run of a-z.
// Anything after the first non-letter is discarded: "don't" -> "don", "1234" -> "".
func Normalize(token string) string {
	return wordPattern.FindString(strings.ToLower(token))
}

// Keep reports whether a normalized token survives the filter stage.
func Keep(value string) bool {
	return value != ""
}

// Tokens runs one line through Tokenize, Normalize and Filter.
func (a *Analytics) Tokens(line models.LineRecord) []models.TokenRecord {
	raw := Tokenize(line.Text)
	out := make([]models.TokenRecord, 0, len(raw))
	for _, tok := range raw {
		if v := Normalize(tok); Keep(v) {
			out = append(out, models.TokenRecord{Value: v})
		}
	}
	return out
}

// LineCounts is the per-partition tally produced by WordFrequency.
type LineCounts struct {
	RawTokens  int
	KeptTokens int
	Words      map[string]int
}

// WordFrequency counts normalized words across lines.
// It is the partition-local combiner: pure, so re-running it on the same lines gives the same result.
func (a *Analytics) WordFrequency(lines []models.LineRecord) LineCounts {
	counts := LineCounts{Words: make(map[string]int)}

	for _, line := range lines {
		raw := Tokenize(line.Text)
		counts.RawTokens += len(raw)
		for _, tok := range raw {
			word := Normalize(tok)
			if !Keep(word) {
				continue
			}
			counts.KeptTokens++
			counts.Words[word]++
		}
	}

	return counts
}
