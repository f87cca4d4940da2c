package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/dimnet/internal/site"
)

func init() {
	rootCmd.AddCommand(topicsCmd)
}

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List topics with generated networks",
	Args:  cobra.NoArgs,
	RunE:  runTopics,
}

func runTopics(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	topics, err := site.ValidTopics(settings)
	if err != nil {
		return err
	}

	if humanOutput {
		fmt.Print(formatTopics(topics))
	} else {
		if topics == nil {
			topics = []site.Topic{}
		}
		outputJSON(topics)
	}
	return nil
}
