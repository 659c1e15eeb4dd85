package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-scout-metrics/internal/model"
	"github.com/pable/go-scout-metrics/internal/report"
	"github.com/pable/go-scout-metrics/internal/similarity"
)

// queryFlags are the similarity options shared by similar, recommend,
// replace and cluster.
type queryFlags struct {
	seasonFlags
	position string
	features string
	method   string
	robust   bool
	pca      bool
	top      int
}

func (q *queryFlags) register(cmd *cobra.Command) {
	q.seasonFlags.register(cmd)
	cmd.Flags().StringVar(&q.position, "position", "all", "feature set: forward, midfielder, defender or all")
	cmd.Flags().StringVar(&q.features, "features", "", "comma-separated feature columns (overrides --position)")
	cmd.Flags().StringVar(&q.method, "method", "cosine", "similarity: cosine, euclidean or combined")
	cmd.Flags().BoolVar(&q.robust, "robust", false, "scale by median/IQR instead of mean/std")
	cmd.Flags().BoolVar(&q.pca, "pca", false, "reduce features to 95% explained variance")
	cmd.Flags().IntVar(&q.top, "top", 10, "candidates to return")
}

func (q *queryFlags) options() (similarity.Options, error) {
	opts := similarity.DefaultOptions()
	pos, err := similarity.ParsePosition(q.position)
	if err != nil {
		return opts, err
	}
	method, err := similarity.ParseMethod(q.method)
	if err != nil {
		return opts, err
	}
	opts.Position, opts.Method, opts.PCA, opts.TopN = pos, method, q.pca, q.top
	if q.features != "" {
		opts.Features = strings.Split(q.features, ",")
	}
	if q.robust {
		opts.Scaler = similarity.RobustScaler
	}
	return opts, nil
}

var similarQ queryFlags

var similarCmd = &cobra.Command{
	Use:   "similar <name>",
	Short: "Players most similar to a given player",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimilar,
}

func init() {
	similarQ.register(similarCmd)
}

func runSimilar(cmd *cobra.Command, args []string) error {
	opts, err := similarQ.options()
	if err != nil {
		return err
	}
	return withTable(&similarQ.seasonFlags, func(t *model.SeasonTable) error {
		matches, err := similarity.SimilarTo(t, args[0], opts)
		if err != nil {
			return err
		}
		report.PrintSimilar(os.Stdout, fmt.Sprintf("Players similar to %s (%s, %s)", args[0], opts.Method, opts.Position), "SIMILARITY", matches)
		return nil
	})
}

var (
	recommendQ    queryFlags
	recommendRole string
	recommendSet  []string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank players against a role preset or a custom profile",
	Long: `Rank players against a target profile. Use --role for a preset
(` + strings.Join(similarity.RoleNames(), ", ") + `) or --set column=value
one or more times for a custom profile. Scores are 0-100.`,
	Args: cobra.NoArgs,
	RunE: runRecommend,
}

func init() {
	recommendQ.register(recommendCmd)
	recommendCmd.Flags().StringVar(&recommendRole, "role", "", "role preset")
	recommendCmd.Flags().StringArrayVar(&recommendSet, "set", nil, "custom profile value, e.g. --set goals_per_90=0.6")
}

func parseProfile(pairs []string) (map[string]float64, error) {
	profile := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q (want column=value)", p)
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --set %q: %w", p, err)
		}
		profile[strings.TrimSpace(k)] = f
	}
	return profile, nil
}

func runRecommend(cmd *cobra.Command, args []string) error {
	if (recommendRole == "") == (len(recommendSet) == 0) {
		return fmt.Errorf("give exactly one of --role or --set")
	}
	opts, err := recommendQ.options()
	if err != nil {
		return err
	}
	// Profiles are compared on their own columns unless a feature set is asked for.
	if recommendQ.features == "" && cmd.Flags().Changed("position") {
		opts.Features = similarity.Features(opts.Position)
	}
	opts.MinMatches = recommendQ.min()

	return withTable(&recommendQ.seasonFlags, func(t *model.SeasonTable) error {
		var (
			matches []similarity.Match
			title   string
			err     error
		)
		if recommendRole != "" {
			matches, err = similarity.MatchRole(t, recommendRole, opts)
			title = "Best fits for role " + recommendRole
		} else {
			var profile map[string]float64
			if profile, err = parseProfile(recommendSet); err != nil {
				return err
			}
			matches, err = similarity.MatchProfile(t, profile, opts)
			title = "Best fits for custom profile"
		}
		if err != nil {
			return err
		}
		report.PrintSimilar(os.Stdout, title, "MATCH%", matches)
		return nil
	})
}

var (
	replaceQ       queryFlags
	replaceUpgrade float64
)

var replaceCmd = &cobra.Command{
	Use:   "replace <name>",
	Short: "Candidates to replace a player, optionally with an upgrade factor",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplace,
}

func init() {
	replaceQ.register(replaceCmd)
	replaceCmd.Flags().Float64Var(&replaceUpgrade, "upgrade", 1.1, "multiply the player's profile by this factor")
}

func runReplace(cmd *cobra.Command, args []string) error {
	opts, err := replaceQ.options()
	if err != nil {
		return err
	}
	return withTable(&replaceQ.seasonFlags, func(t *model.SeasonTable) error {
		matches, err := similarity.Replacement(t, args[0], replaceUpgrade, opts)
		if err != nil {
			return err
		}
		report.PrintSimilar(os.Stdout, fmt.Sprintf("Replacements for %s (x%.2f)", args[0], replaceUpgrade), "MATCH%", matches)
		return nil
	})
}

var (
	clusterQ    queryFlags
	clusterK    int
	clusterSeed uint64
)

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Group players into k profiles with k-means",
	Args:  cobra.NoArgs,
	RunE:  runCluster,
}

func init() {
	clusterQ.register(clusterCmd)
	clusterCmd.Flags().IntVar(&clusterK, "k", 5, "number of clusters")
	clusterCmd.Flags().Uint64Var(&clusterSeed, "seed", 42, "random seed")
}

func runCluster(cmd *cobra.Command, args []string) error {
	opts, err := clusterQ.options()
	if err != nil {
		return err
	}
	km := similarity.DefaultKMeansOptions()
	km.Seed = clusterSeed
	return withTable(&clusterQ.seasonFlags, func(t *model.SeasonTable) error {
		res, err := similarity.Cluster(t, clusterK, opts, km)
		if err != nil {
			return err
		}
		report.PrintClusters(os.Stdout, res)
		return nil
	})
}
