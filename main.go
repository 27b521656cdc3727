package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/urfave/cli/v2"

	histdb "github.com/dtnitsch/wordfreq/internal/db"
	"github.com/dtnitsch/wordfreq/internal/run"
	"github.com/dtnitsch/wordfreq/models"
	"github.com/dtnitsch/wordfreq/pkg/help"
)

func envVar(name string) []string {
	return []string{"WORDFREQ_" + name}
}

func dbPathFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "db-path",
		Value:   models.DefaultDBPath,
		Usage:   "SQLite run history database (empty disables history)",
		EnvVars: envVar("DB_PATH"),
	}
}

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML config file; flags that are set override it",
			EnvVars: envVar("CONFIG"),
		},
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Value:   models.DefaultInputPath,
			Usage:   "Input corpus: local path or http(s) URL",
			EnvVars: envVar("INPUT"),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Value:   models.DefaultOutputPath,
			Usage:   "Output directory for the CSV part files",
			EnvVars: envVar("OUTPUT"),
		},
		&cli.StringFlag{
			Name:    "input-format",
			Value:   string(models.InputFormatAuto),
			Usage:   "Input format: auto, text, or html",
			EnvVars: envVar("INPUT_FORMAT"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   models.DefaultLogLevel,
			Usage:   "Log level: debug, info, warn, error",
			EnvVars: envVar("LOG_LEVEL"),
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Only log errors",
			EnvVars: envVar("QUIET"),
		},
		&cli.IntFlag{
			Name:    "partitions",
			Value:   8,
			Usage:   "Number of input partitions (map tasks)",
			EnvVars: envVar("PARTITIONS"),
		},
		&cli.IntFlag{
			Name:    "reducers",
			Value:   4,
			Usage:   "Number of reducers, one CSV part file each",
			EnvVars: envVar("REDUCERS"),
		},
		&cli.IntFlag{
			Name:    "workers",
			Value:   runtime.NumCPU(),
			Usage:   "Number of concurrent map workers",
			EnvVars: envVar("WORKERS"),
		},
		&cli.IntFlag{
			Name:    "max-retries",
			Value:   2,
			Usage:   "Re-executions allowed per failed map task",
			EnvVars: envVar("MAX_RETRIES"),
		},
		&cli.IntFlag{
			Name:    "top",
			Value:   10,
			Usage:   "Rows shown in each console view",
			EnvVars: envVar("TOP"),
		},
		&cli.BoolFlag{
			Name:    "header",
			Usage:   "Write a word,count header row in each part file",
			EnvVars: envVar("HEADER"),
		},
		&cli.BoolFlag{
			Name:    "overwrite",
			Usage:   "Replace an existing output directory",
			EnvVars: envVar("OVERWRITE"),
		},
		dbPathFlag(),
		&cli.StringFlag{
			Name:    "cache-dir",
			Usage:   "Directory for partial-count checkpoints (empty disables)",
			EnvVars: envVar("CACHE_DIR"),
		},
		&cli.DurationFlag{
			Name:    "cache-ttl",
			Value:   24 * time.Hour,
			Usage:   "Maximum age of a checkpoint (0 never expires)",
			EnvVars: envVar("CACHE_TTL"),
		},
		&cli.BoolFlag{
			Name:    "detect-language",
			Value:   true,
			Usage:   "Detect the corpus language and warn if it is not English",
			EnvVars: envVar("DETECT_LANGUAGE"),
		},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:   "wordfreq",
		Usage:  "Count word frequencies in a text corpus and export them as CSV",
		Flags:  runFlags(),
		Action: run.RunAction,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Load, count, report and export (default command)",
				Flags:  runFlags(),
				Action: run.RunAction,
			},
			{
				Name:  "runs",
				Usage: "List recorded runs",
				Flags: []cli.Flag{
					dbPathFlag(),
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "Maximum runs to list"},
				},
				Action: histdb.RunsAction,
			},
			{
				Name:      "top",
				Usage:     "Show the most frequent words of a recorded run",
				ArgsUsage: "[run-id]",
				Flags: []cli.Flag{
					dbPathFlag(),
					&cli.IntFlag{Name: "top", Value: 10, Usage: "Rows to show"},
					&cli.BoolFlag{Name: "full", Usage: "Do not truncate long words"},
				},
				Action: histdb.TopAction,
			},
			{
				Name:  "quickstart",
				Usage: "Print a YAML quick start guide",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprint(c.App.Writer, help.QuickstartYAML)
					return err
				},
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(run.ExitCode(err))
	}
}
