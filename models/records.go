package models

// LineRecord is one raw line of the source document.
type LineRecord struct {
	Text string
}

// TokenRecord is one normalized candidate word.
// After filtering, Value is non-empty and contains only a-z.
type TokenRecord struct {
	Value string
}

// FrequencyRecord is one aggregated (word, count) result.
type FrequencyRecord struct {
	Word  string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// Lines wraps raw strings as LineRecords.
func Lines(texts ...string) []LineRecord {
	recs := make([]LineRecord, len(texts))
	for i, t := range texts {
		recs[i] = LineRecord{Text: t}
	}
	return recs
}
