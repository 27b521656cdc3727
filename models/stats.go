package models

// RunStats summarizes one pipeline execution.
type RunStats struct {
	Lines         int `json:"lines" yaml:"lines"`
	RawTokens     int `json:"raw_tokens" yaml:"raw_tokens"`
	KeptTokens    int `json:"kept_tokens" yaml:"kept_tokens"`
	DistinctWords int `json:"distinct_words" yaml:"distinct_words"`
	Partitions    int `json:"partitions" yaml:"partitions"`
	Reducers      int `json:"reducers" yaml:"reducers"`
	Retries       int `json:"retries" yaml:"retries"`
	CacheHits     int `json:"cache_hits" yaml:"cache_hits"`
}
