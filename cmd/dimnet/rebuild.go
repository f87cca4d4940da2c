package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/dimnet/internal/backend"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild <snapshot.jsonl>",
	Short: "Rebuild the local snapshot database",
	Long: `Rebuild the SQLite snapshot queried with --local from a JSONL export of
publications. Each line holds one publication:

  {"id": "pub.1", "year": 2021, "title": "...", "abstract": "...",
   "research_orgs": [{"id": "grid.1.a", "name": "..."}],
   "concepts": [{"concept": "...", "relevance": 0.8}]}

The previous snapshot is replaced; a failed rebuild leaves it untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status       string `json:"status"`
	Publications int    `json:"publications"`
	Path         string `json:"path"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	db, err := backend.OpenSQLite(settings.SnapshotPath)
	if err != nil {
		return err
	}
	defer db.Close()

	count, err := db.RebuildFromJSONL(args[0])
	if err != nil {
		return fmt.Errorf("rebuilding snapshot: %w", err)
	}

	if humanOutput {
		fmt.Printf("Rebuilt snapshot %s with %d publications\n", settings.SnapshotPath, count)
	} else {
		outputJSON(RebuildResult{
			Status:       "rebuilt",
			Publications: count,
			Path:         settings.SnapshotPath,
		})
	}
	return nil
}
