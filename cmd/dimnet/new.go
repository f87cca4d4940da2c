package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matsen/dimnet/internal/topic"
)

func init() {
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new <keyword>",
	Short: "Create a topic file from a keyword search",
	Long: `Create a topic file selecting publications whose title or abstract
matches a keyword. The file is written to the topics directory and can be
edited before running it.

Example:
  dimnet new "vaccine hesitancy"
  dimnet topics/vaccine_hesitancy.sql`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNew,
}

func runNew(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	keyword := strings.Join(args, " ")
	path, err := topic.NewFromKeyword(settings.TopicsDir, settings.Dataset, keyword, time.Now())
	if err != nil {
		return err
	}

	if humanOutput {
		fmt.Printf("Created topic %s\n", path)
	} else {
		outputJSON(StatusResponse{Status: "created", Path: path})
	}
	return nil
}
