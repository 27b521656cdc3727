package mapreduce

import (
	"fmt"
	"sort"

	"github.com/dtnitsch/wordfreq/models"
)

// Rank converts word counts into records ordered by count descending.
// Equal counts are ordered by word ascending so the output never depends on map iteration order.
func Rank(wordCounts map[string]int) []models.FrequencyRecord {
	ss := make([]models.FrequencyRecord, 0, len(wordCounts))
	for k, v := range wordCounts {
		ss = append(ss, models.FrequencyRecord{Word: k, Count: v})
	}

	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Count != ss[j].Count {
			return ss[i].Count > ss[j].Count
		}
		return ss[i].Word < ss[j].Word
	})

	return ss
}

// SortByWord orders records lexicographically, the row order used inside export part files.
func SortByWord(wordCounts map[string]int) []models.FrequencyRecord {
	ss := make([]models.FrequencyRecord, 0, len(wordCounts))
	for k, v := range wordCounts {
		ss = append(ss, models.FrequencyRecord{Word: k, Count: v})
	}
	sort.Slice(ss, func(i, j int) bool { return ss[i].Word < ss[j].Word })
	return ss
}

// Top returns the first n ranked records (all of them if n exceeds the set).
func Top(ranked []models.FrequencyRecord, n int) []models.FrequencyRecord {
	if n < 0 {
		n = 0
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// TopKeywords returns the top N keywords from aggregated word counts as formatted strings.
// Each string is formatted as "word:count" (e.g., "the:4218").
func TopKeywords(wordCounts map[string]int, n int) []string {
	top := Top(Rank(wordCounts), n)

	keywords := make([]string, len(top))
	for i, r := range top {
		keywords[i] = fmt.Sprintf("%s:%d", r.Word, r.Count)
	}

	return keywords
}
