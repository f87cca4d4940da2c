package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/dimnet/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved settings",
	Long: `Show the settings a run would use, after merging defaults, the global
config file, .env, the environment and flags.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

// ConfigResponse is the response for the config command.
type ConfigResponse struct {
	ConfigFile string          `json:"config_file"`
	Settings   config.Settings `json:"settings"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	if !humanOutput {
		outputJSON(ConfigResponse{ConfigFile: config.GlobalConfigPath(), Settings: settings})
		return nil
	}

	fmt.Printf("output_root:      %s\n", settings.OutputRoot)
	fmt.Printf("topics_dir:       %s\n", settings.TopicsDir)
	fmt.Printf("dataset:          %s\n", settings.Dataset)
	fmt.Printf("backend:          %s\n", settings.Backend)
	fmt.Printf("snapshot_path:    %s\n", settings.SnapshotPath)
	fmt.Printf("gcp_project:      %s\n", orUnset(settings.Project))
	fmt.Printf("credentials_file: %s\n", orUnset(settings.CredentialsFile))
	fmt.Printf("base_url:         %s\n", settings.BaseURL)
	fmt.Printf("query_rate:       %g/s\n", settings.QueryRate)
	fmt.Printf("port:             %d\n", settings.Port)
	fmt.Printf("\n%s\n", config.HelpfulConfigMessage())
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}
