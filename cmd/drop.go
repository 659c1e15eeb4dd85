package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-scout-metrics/internal/storage"
)

var dropForce bool

// dropCmd deletes the metrics database file.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the metrics database",
	Long:  "Permanently delete the SQLite metrics database. All loaded matches and load history will be lost. Run 'scoutmetrics load' afterwards to rebuild.",
	Args:  cobra.NoArgs,
	RunE:  runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cfg.DBPath); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
		return nil
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", cfg.DBPath)
		if db, err := storage.Open(cfg.DBPath); err == nil {
			fmt.Fprintf(os.Stderr, "%s\n", dropSummary(db))
			db.Close()
		}
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := removeDatabase(cfg.DBPath); err != nil {
		return fmt.Errorf("remove database: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", cfg.DBPath)
	return nil
}

// dropSummary names what a drop loses: loaded matches, players and load runs.
func dropSummary(db *storage.DB) string {
	ov, err := db.GetDBOverview()
	if err != nil {
		return "Loaded matches and load runs will be lost."
	}
	return fmt.Sprintf("Loaded matches lost: %d (%d players, %d stored values); load runs lost: %d",
		ov.TotalMatches, ov.UniquePlayers, ov.TotalValues, ov.LoadRuns)
}

// removeDatabase deletes the database file and its WAL sidecar files.
func removeDatabase(path string) error {
	if err := os.Remove(path); err != nil {
		return err
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(path + suffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}
