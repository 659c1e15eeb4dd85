package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-scout-metrics/internal/extract"
	"github.com/pable/go-scout-metrics/internal/model"
	"github.com/pable/go-scout-metrics/internal/pipeline"
)

var (
	loadSel     seasonFlags
	loadVariant string
	loadRefresh bool
	loadWorkers int
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Fetch a competition season and store per-match player rows",
	Long: `Fetch every match of a competition season from StatsBomb open data,
extract per-player counters and store them. Matches already stored are
skipped unless --refresh is given; a match that fails to download or decode
is logged and skipped.`,
	Args: cobra.NoArgs,
	RunE: runLoad,
}

func init() {
	loadSel.register(loadCmd)
	loadCmd.Flags().StringVar(&loadVariant, "variant", "", "column set: basic or full (default from config)")
	loadCmd.Flags().BoolVar(&loadRefresh, "refresh", false, "re-download and re-extract stored matches")
	loadCmd.Flags().IntVar(&loadWorkers, "workers", 0, "concurrent match downloads (default from config)")
}

func runLoad(cmd *cobra.Command, args []string) error {
	comp, sea, err := loadSel.resolve()
	if err != nil {
		return err
	}
	name := loadVariant
	if name == "" {
		name = cfg.Variant
	}
	variant, ok := model.ParseVariant(name)
	if !ok {
		return fmt.Errorf("unknown variant %q (want basic or full)", name)
	}
	workers := cfg.Workers
	if loadWorkers > 0 {
		workers = loadWorkers
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	opts := pipeline.Options{
		Workers: workers,
		Variant: variant,
		Extract: extract.Options{
			ProgressivePassMin:  cfg.ProgressivePassMin,
			ProgressiveCarryMin: cfg.ProgressiveCarryMin,
			XALookahead:         cfg.XALookahead,
		},
		Refresh: loadRefresh,
		Logger:  log,
	}
	fmt.Fprintf(os.Stdout, "Loading competition %d season %d (%s variant, %d workers)...\n", comp, sea, variant, workers)
	rep, err := pipeline.Load(cmd.Context(), newClient(loadRefresh), db, comp, sea, opts)
	if err != nil {
		return fmt.Errorf("load season: %w", err)
	}

	fmt.Fprintf(os.Stdout, "\nRun %s\n", rep.RunID)
	fmt.Fprintf(os.Stdout, "  Matches listed : %d\n", rep.Matches)
	fmt.Fprintf(os.Stdout, "  Loaded         : %d\n", rep.Loaded)
	fmt.Fprintf(os.Stdout, "  Already stored : %d\n", rep.Cached)
	fmt.Fprintf(os.Stdout, "  Skipped        : %d\n", rep.Skipped)
	fmt.Fprintf(os.Stdout, "  Event issues   : %d\n", rep.Issues)
	return nil
}
