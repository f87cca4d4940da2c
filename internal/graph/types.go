// Package graph builds validated network graphs from backend result rows.
package graph

import (
	"fmt"
	"sort"

	"github.com/matsen/dimnet/internal/network"
)

// Item is a graph node.
type Item struct {
	ID    string
	Label string
	// CustomSearch is the URL fragment the front end substitutes into the
	// base URL pattern to deep-link the node.
	CustomSearch string
}

// Link is a weighted, undirected edge between two items.
type Link struct {
	SourceID     string
	TargetID     string
	Strength     int64
	CustomSearch string
	URL          string
}

// Graph is the immutable result of one (topic, kind) run. Every link
// endpoint is a key of Items.
type Graph struct {
	Kind        network.Kind
	Items       map[string]Item
	Links       []Link
	Terminology network.Terminology
}

// IsEmpty returns true if the graph has no items.
func (g *Graph) IsEmpty() bool {
	return len(g.Items) == 0
}

// ItemIDs returns the item identifiers in lexicographic order.
func (g *Graph) ItemIDs() []string {
	ids := make([]string, 0, len(g.Items))
	for id := range g.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RowError describes a backend row that failed validation.
type RowError struct {
	Index  int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s: row %d: %s", network.ErrMalformedRow, e.Index, e.Reason)
}

// Unwrap lets errors.Is match network.ErrMalformedRow.
func (e *RowError) Unwrap() error {
	return network.ErrMalformedRow
}
