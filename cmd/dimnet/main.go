// Package main provides the dimnet CLI entry point.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matsen/dimnet/internal/config"
	"github.com/matsen/dimnet/internal/logger"
	"github.com/matsen/dimnet/internal/logger/console"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput    bool
	verbose        bool
	buildIndex     bool
	fullDimensions bool
	runServer      bool
	localSnapshot  bool
	port           int
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		exitWithError(exitCodeFor(err), "%v", err)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dimnet [filename]",
	Short: "Build network visualizations from Dimensions data",
	Long: `dimnet builds organization collaboration and concept co-occurrence
networks from Dimensions publication data on Google BigQuery, and writes
them as VOSviewer JSON files with a small static site to browse them.

filename is a topic file (SQL selecting publication ids) or a directory;
every .sql file in a directory is processed.

Example:
  dimnet topics/
  dimnet -r topics/ai_ethics.sql`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Init(console.New(console.Params{Debug: verbose}))
		return config.LoadEnv()
	},
	RunE: runRoot,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log debug diagnostics, including composed queries")
	rootCmd.PersistentFlags().BoolVarP(&fullDimensions, "fulldimensions", "f", false, "Query the full Dimensions dataset instead of the COVID-19 subset (requires a subscription)")
	rootCmd.PersistentFlags().BoolVar(&localSnapshot, "local", false, "Query the local SQLite snapshot instead of BigQuery")

	rootCmd.Flags().BoolVarP(&buildIndex, "buildindex", "i", false, "Rebuild the site index from previously generated networks")
	rootCmd.Flags().BoolVarP(&runServer, "runserver", "r", false, "Serve the site after processing")
	rootCmd.Flags().IntVarP(&port, "port", "p", config.DefaultPort, "Port for --runserver")
	rootCmd.Version = Version
}
