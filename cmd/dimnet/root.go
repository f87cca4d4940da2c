package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matsen/dimnet/internal/auth"
	"github.com/matsen/dimnet/internal/backend"
	"github.com/matsen/dimnet/internal/config"
	"github.com/matsen/dimnet/internal/logger"
	"github.com/matsen/dimnet/internal/pipeline"
	"github.com/matsen/dimnet/internal/server"
	"github.com/matsen/dimnet/internal/site"
	"github.com/matsen/dimnet/internal/topic"
)

// loadSettings resolves the settings of this invocation.
func loadSettings() (config.Settings, error) {
	global, err := config.LoadGlobalConfig()
	if err != nil {
		return config.Settings{}, err
	}
	return config.Resolve(global, config.Overrides{
		FullDimensions: fullDimensions,
		Local:          localSnapshot,
		Port:           port,
	})
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !buildIndex && !runServer {
		return cmd.Help()
	}
	ctx := cmd.Context()

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	logger.Info("setting up output directories", "root", settings.OutputRoot)
	if err := site.Setup(settings); err != nil {
		return err
	}
	pruned, err := site.Prune(settings)
	if err != nil {
		return err
	}

	resp := RunResponse{Pruned: pruned}
	if len(args) == 1 {
		report, err := generate(ctx, settings, args[0])
		resp.Report = report
		if err != nil {
			if report != nil {
				printRun(resp)
			}
			return err
		}
	}

	if buildIndex || (resp.Report != nil && resp.Report.Changed()) || (runServer && !dirExists(settings.BuildDir())) {
		res, err := site.Build(settings, time.Now())
		if err != nil {
			return err
		}
		logger.Info("site index regenerated", "path", res.Index, "topics", len(res.Topics))
		resp.Site = res
	}

	printRun(resp)

	if runServer {
		srv, err := server.New(settings.BuildDir(), settings.Port)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "\nServing at http://127.0.0.1:%d ...\n", settings.Port)
		if err := srv.Start(ctx); err != nil {
			return err
		}
	}

	if resp.Report != nil && resp.Report.Failed() {
		os.Exit(ExitDataError)
	}
	return nil
}

// generate runs the pipeline over the topic files at path.
func generate(ctx context.Context, settings config.Settings, path string) (*pipeline.Report, error) {
	in, err := topic.Discover(path)
	if err != nil {
		return nil, err
	}
	if len(in.Files) == 0 {
		return nil, fmt.Errorf("no %s files found in %s", topic.Extension, path)
	}
	for _, f := range in.Files {
		logger.Info("found topic file", "file", f)
	}

	if settings.Backend == config.BackendBigQuery && settings.CredentialsFile == "" {
		if err := auth.New().EnsureLogin(ctx); err != nil {
			return nil, err
		}
	}

	b, err := backend.Open(ctx, settings)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	return pipeline.NewRunner(settings, b).Run(ctx, in)
}

func printRun(resp RunResponse) {
	if !humanOutput {
		outputJSON(resp)
		return
	}
	for _, p := range resp.Pruned {
		fmt.Printf("Removed %s (no matching topic)\n", p)
	}
	if resp.Report != nil {
		fmt.Print(formatReport(resp.Report))
	}
	if resp.Site != nil {
		fmt.Printf("Index page regenerated: %s (%d topics)\n", resp.Site.Index, len(resp.Site.Topics))
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
