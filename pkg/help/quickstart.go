package help

const QuickstartYAML = `# wordfreq Quick Start

pipeline:
  load: "Read the corpus line by line (local file, http(s) URL, or HTML)"
  tokenize: "Split each line on single spaces"
  normalize: "Lowercase, keep the first run of a-z letters (don't -> don)"
  filter: "Drop tokens with no letters"
  count: "Partitioned map, hash shuffle, reduce; failed partitions are retried"
  report: "Top rows by count desc, then word asc; truncated and full views"
  export: "Directory of part-NNNNN.csv files (word,count), _SUCCESS, _manifest.yaml"

commands:
  default_run: |
    wordfreq run

  custom_paths: |
    wordfreq run --input ./1342-0.txt --output ./out/word_counts.csv

  overwrite_with_header: |
    wordfreq run --output ./out/word_counts.csv --overwrite --header

  html_input: |
    wordfreq run --input https://www.gutenberg.org/files/1342/1342-h/1342-h.htm --input-format html

  tune_parallelism: |
    wordfreq run --partitions 16 --reducers 8 --workers 4 --max-retries 3

  checkpoint_cache: |
    wordfreq run --cache-dir ./.wordfreq-cache --cache-ttl 72h

  list_runs: |
    wordfreq runs --limit 5

  top_words: |
    wordfreq top          # latest run
    wordfreq top --top 25 3

config_file:
  usage: "wordfreq run --config wordfreq.yaml (flags that are set win)"
  example: |
    input: /data/1342-0.txt
    output: /data/word_counts.csv
    partitions: 8
    reducers: 4
    header: false
    db_path: wordfreq.db

environment:
  prefix: "WORDFREQ_ (e.g. WORDFREQ_INPUT, WORDFREQ_REDUCERS, WORDFREQ_DB_PATH)"

exit_codes:
  0: "success"
  1: "usage or configuration error"
  2: "runtime failure (missing input, output exists, map task retries exhausted)"

output:
  stdout: "Two top-N tables"
  stderr: "JSON logs (--log-level, --quiet)"
`
