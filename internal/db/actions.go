package db

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/wordfreq/pkg/report"
)

// RunsAction lists recorded runs, newest first.
func RunsAction(c *cli.Context) error {
	database, err := openHistory(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return err
	}

	w := c.App.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found")
		return nil
	}

	fmt.Fprintf(w, "%-6s %-20s %-8s %-10s %-10s %-6s %-9s %s\n",
		"ID", "Created", "Lang", "Words", "Distinct", "Parts", "Seconds", "Input")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, r := range runs {
		lang := r.Language.String
		if !r.Language.Valid {
			lang = "-"
		}
		fmt.Fprintf(w, "%-6d %-20s %-8s %-10d %-10d %-6d %-9.2f %s\n",
			r.RunID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			lang,
			r.Stats.KeptTokens,
			r.Stats.DistinctWords,
			r.Stats.Reducers,
			r.DurationSeconds,
			r.InputPath,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d runs\n", len(runs))
	fmt.Fprintf(w, "\nTip: Use 'wordfreq top <id>' to see the most frequent words\n")

	return nil
}

// TopAction prints the most frequent words of a recorded run.
func TopAction(c *cli.Context) error {
	n := c.Int("top")
	if n < 0 {
		return fmt.Errorf("--top must be >= 0, got %d", n)
	}

	database, err := openHistory(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRun(runID)
	if err != nil {
		return err
	}

	// One extra row tells Show whether more words exist
	records, err := database.TopWords(runID, n+1)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Run %d: %s (%d distinct words)\n", run.RunID, run.InputPath, run.Stats.DistinctWords)
	return report.Show(w, records, n, !c.Bool("full"))
}
