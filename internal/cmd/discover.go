package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/compasshq/fcx/internal/discovery"
	"github.com/compasshq/fcx/internal/embeddings"
	"github.com/compasshq/fcx/internal/output"
	"github.com/compasshq/fcx/internal/semfilter"
	"github.com/spf13/cobra"
)

var discoverCmd = &cobra.Command{
	Use:   "discover <symbol-id>",
	Short: "Discover the feature symbol set around an entry point",
	Long: `Discover all symbols belonging to the feature that contains the given
entry-point symbol. The result is a relevance-scored symbol list: the entry
point at 1.0, cross-stack bridge targets at 0.9, and transitively discovered
symbols decaying with traversal depth.

Examples:
  fcx discover 1043
  fcx discover 1043 --feature "user billing" --semantic
  fcx discover 1043 --max-depth 3 --min-score 0.4 --no-models`,
	Args: cobra.ExactArgs(1),
	RunE: runDiscover,
}

var (
	discoverFeature    string
	discoverMaxDepth   int
	discoverMaxSymbols int
	discoverMinScore   float64
	discoverNoModels   bool
	discoverNoComps    bool
	discoverTests      bool
	discoverSemantic   bool
)

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().StringVar(&discoverFeature, "feature", "", "Feature name for the report and semantic filter")
	discoverCmd.Flags().IntVar(&discoverMaxDepth, "max-depth", 0, "Traversal depth limit (default from config)")
	discoverCmd.Flags().IntVar(&discoverMaxSymbols, "max-symbols", 0, "Result size limit (default from config)")
	discoverCmd.Flags().Float64Var(&discoverMinScore, "min-score", -1, "Drop symbols below this relevance")
	discoverCmd.Flags().BoolVar(&discoverNoModels, "no-models", false, "Exclude model symbols from the result")
	discoverCmd.Flags().BoolVar(&discoverNoComps, "no-components", false, "Exclude component symbols from the result")
	discoverCmd.Flags().BoolVar(&discoverTests, "include-tests", false, "Keep test symbols in the result")
	discoverCmd.Flags().BoolVar(&discoverSemantic, "semantic", false, "Apply the embedding-based post-filter")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	entryID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid symbol id %q", args[0])
	}

	st, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	opts := discovery.DefaultOptions()
	opts.MaxDepth = cfg.Discovery.MaxDepth
	opts.MaxSymbols = cfg.Discovery.MaxSymbols
	opts.MinRelevanceScore = cfg.Discovery.MinRelevance
	opts.FeatureName = discoverFeature
	opts.IncludeTests = discoverTests
	if discoverMaxDepth > 0 {
		opts.MaxDepth = discoverMaxDepth
	}
	if discoverMaxSymbols > 0 {
		opts.MaxSymbols = discoverMaxSymbols
	}
	if discoverMinScore >= 0 {
		opts.MinRelevanceScore = discoverMinScore
	}
	opts.IncludeModels = !discoverNoModels
	opts.IncludeComponents = !discoverNoComps

	engine := discovery.NewEngine(st, discovery.EngineOptions{
		MaxIterations: cfg.Discovery.MaxIterations,
		Debug:         verbose,
	})

	if discoverSemantic || cfg.Semantic.Enabled {
		embedder := embeddings.NewOllamaEmbedder(cfg.Semantic.Model)
		defer embedder.Close()
		engine.SetPostFilter(semfilter.New(st, embedder, cfg.Semantic.Threshold))
	}

	result, err := engine.Discover(cmd.Context(), entryID, opts)
	if err != nil {
		return err
	}

	if verbose {
		for _, w := range result.Stats.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
	}

	report, err := output.BuildReport(st, discoverFeature, result)
	if err != nil {
		return err
	}
	rendered, err := output.Render(report, output.Format(outputFormat))
	if err != nil {
		return err
	}
	fmt.Println(rendered)
	return nil
}
