package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/matsen/dimnet/internal/pipeline"
	"github.com/matsen/dimnet/internal/site"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RunResponse is the response for the root command.
type RunResponse struct {
	Report *pipeline.Report  `json:"report,omitempty"`
	Pruned []string          `json:"pruned,omitempty"`
	Site   *site.BuildResult `json:"site,omitempty"`
}

// formatReport renders a run report for --human.
func formatReport(r *pipeline.Report) string {
	var b strings.Builder
	for _, t := range r.Topics {
		fmt.Fprintf(&b, "%s (%s): %s\n", t.Topic, t.File, t.Status)
		if t.Error != "" {
			fmt.Fprintf(&b, "  error: %s\n", t.Error)
		}
		for _, k := range t.Kinds {
			switch k.Status {
			case pipeline.StatusWritten:
				fmt.Fprintf(&b, "  %-14s written  %d items, %d links -> %s\n", k.Kind, k.Items, k.Links, k.Path)
			case pipeline.StatusEmpty:
				fmt.Fprintf(&b, "  %-14s empty    no links above threshold, nothing written\n", k.Kind)
			default:
				fmt.Fprintf(&b, "  %-14s %-8s %s\n", k.Kind, k.Status, k.Error)
			}
		}
	}
	counts := r.Counts()
	fmt.Fprintf(&b, "\n%d written, %d empty, %d failed, %d skipped\n",
		counts[pipeline.StatusWritten], counts[pipeline.StatusEmpty],
		counts[pipeline.StatusFailed], counts[pipeline.StatusSkipped])
	return b.String()
}

// formatTopics renders the topic listing for --human.
func formatTopics(topics []site.Topic) string {
	if len(topics) == 0 {
		return "No networks found.\n"
	}
	var b strings.Builder
	for _, t := range topics {
		fmt.Fprintf(&b, "%-30s %s\n", t.ID, strings.Join(t.Kinds, ", "))
	}
	return b.String()
}
