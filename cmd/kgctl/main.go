package main

import (
	"context"
	"fmt"
	"os"

	"github.com/agenthands/biokag/internal/config"
	"github.com/agenthands/biokag/internal/core"
	"github.com/agenthands/biokag/internal/logger"
	"github.com/agenthands/biokag/internal/logger/console"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	kgPath     string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "kgctl",
	Short: "Build and query a biomedical knowledge graph",
	Long: `kgctl builds a provenance-tracking knowledge graph from extraction output
and answers questions against it.

Examples:
  kgctl build extracted/*.json --kg data/kg.json
  kgctl stats --kg data/kg.json
  kgctl query "What genes are linked to diabetes?" --depth 2
  kgctl neighbors "GENE:ins" --predicate ASSOCIATED_WITH`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.toml", "Path to the TOML configuration file")
	rootCmd.PersistentFlags().StringVar(&kgPath, "kg", "", "Graph snapshot location (overrides storage.path)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(buildCmd, statsCmd, queryCmd, neighborsCmd, communitiesCmd, exportCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves configuration from file, environment and flags and
// initialises logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if kgPath != "" {
		cfg.Storage.Path = kgPath
	}
	if debug {
		cfg.Logging.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Init(console.New(console.Params{Debug: cfg.Logging.Debug}))
	return cfg, nil
}

// openKAG loads the configured graph. Read-only commands pass
// requireSnapshot so a missing snapshot is an error rather than an empty
// graph. The returned cleanup must be called.
func openKAG(ctx context.Context, cfg *config.Config, requireSnapshot bool) (*core.KAG, func(), error) {
	opts, cleanup, err := core.OptionsFromConfig(ctx, cfg)
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to set up: %w", err)
	}
	opts.RequireSnapshot = requireSnapshot
	k, err := core.Open(ctx, opts)
	if err != nil {
		return nil, cleanup, err
	}
	return k, cleanup, nil
}
