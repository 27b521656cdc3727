package db

import (
	"fmt"

	dbpkg "github.com/dtnitsch/wordfreq/pkg/db"
	"github.com/urfave/cli/v2"
)

// openHistory opens the database named by --db-path.
func openHistory(c *cli.Context) (*dbpkg.DB, error) {
	path := c.String("db-path")
	if path == "" {
		return nil, fmt.Errorf("run history is disabled (empty --db-path)")
	}
	database, err := dbpkg.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// GetRunIDOrLatest returns the run ID from args, or the latest run if not provided
func GetRunIDOrLatest(c *cli.Context, database *dbpkg.DB) (int64, error) {
	if c.NArg() == 0 {
		runID, err := database.LatestRunID()
		if err != nil {
			return 0, fmt.Errorf("%w. Run 'wordfreq run' first", err)
		}
		return runID, nil
	}

	var runID int64
	_, err := fmt.Sscanf(c.Args().First(), "%d", &runID)
	if err != nil {
		return 0, fmt.Errorf("invalid run ID: %s", c.Args().First())
	}
	return runID, nil
}
