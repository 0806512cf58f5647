// Package cmd defines and implements the CLI commands for the harvester
// executable.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mshahabmemon/Web-crawler-for-downloading-pdfs/internal/config"
	"github.com/Mshahabmemon/Web-crawler-for-downloading-pdfs/internal/logging"
)

var cfgFile string

// appKeyType is the key for storing the app environment in the context.
type appKeyType string

const appKey appKeyType = "app"

// appEnv holds the configuration and logger shared by subcommands.
type appEnv struct {
	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pcf-harvester",
		Short: "Discovers and downloads Product Carbon Footprint reports from brand websites.",
		Long: `pcf-harvester navigates a brand's sustainability pages to locate the hub
listing its Product Carbon Footprint (PCF) reports, crawls the site within a
bounded budget to collect matching PDF documents, and falls back to an
external search index when on-site discovery under-delivers.`,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// .env carries HARVESTER_SEARCH_API_KEY in local setups; absence
			// is not an error.
			_ = godotenv.Load()

			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := logging.New(cfg.Logging.Development)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, &appEnv{cfg: cfg, logger: logger})
			cmd.SetContext(ctx)
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if env, ok := cmd.Context().Value(appKey).(*appEnv); ok && env != nil {
				_ = env.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml), optional")

	cmd.AddCommand(newHarvestCmd())

	return cmd
}

func resolveEnv(ctx context.Context) (*appEnv, error) {
	env, ok := ctx.Value(appKey).(*appEnv)
	if !ok || env == nil {
		return nil, fmt.Errorf("application environment not initialized")
	}
	return env, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
