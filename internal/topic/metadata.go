// Package topic reads analyst topic files: SQL subset queries whose leading
// comment directives carry the network parameters.
package topic

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/matsen/dimnet/internal/network"
)

// CommentMarker starts a directive line in a topic file.
const CommentMarker = "--"

// Recognized directive keys.
const (
	KeyNetworkTypes        = "network_types"
	KeyMaxNodes            = "max_nodes"
	KeyMinEdgeWeight       = "min_edge_weight"
	KeyMinConceptRelevance = "min_concept_relevance"
	KeyMinConceptFrequency = "min_concept_frequency"
)

// keys is the scan order for directives.
var keys = []string{
	KeyNetworkTypes,
	KeyMaxNodes,
	KeyMinEdgeWeight,
	KeyMinConceptRelevance,
	KeyMinConceptFrequency,
}

// Metadata holds the directive values of a topic file as extracted,
// before they are bound as typed parameters.
type Metadata struct {
	NetworkTypes        []string `json:"network_types"`
	MaxNodes            string   `json:"max_nodes"`
	MinEdgeWeight       string   `json:"min_edge_weight"`
	MinConceptRelevance string   `json:"min_concept_relevance"`
	MinConceptFrequency string   `json:"min_concept_frequency"`
}

// DefaultMetadata returns the values used for directives absent from a file.
func DefaultMetadata() Metadata {
	p := network.DefaultParams()
	return Metadata{
		NetworkTypes:        network.KindNames(),
		MaxNodes:            strconv.FormatInt(p.MaxNodes, 10),
		MinEdgeWeight:       strconv.FormatInt(p.MinEdgeWeight, 10),
		MinConceptRelevance: strconv.FormatFloat(p.MinConceptRelevance, 'f', -1, 64),
		MinConceptFrequency: strconv.FormatInt(p.MinConceptFrequency, 10),
	}
}

// File is a loaded topic file.
type File struct {
	Path     string
	Metadata Metadata
	// Subset is the full file text, used verbatim as the publication
	// subset query.
	Subset string
}

// Load reads a topic file and extracts its directives.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading topic file: %w", network.ErrIO, err)
	}
	return &File{Path: path, Metadata: Parse(data), Subset: string(data)}, nil
}

// Extract reads the directives of a topic file, merged over the defaults.
func Extract(path string) (*Metadata, error) {
	f, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &f.Metadata, nil
}

// Parse extracts directives from topic file contents. For each key the last
// matching directive line wins; unknown directives are ignored.
func Parse(data []byte) Metadata {
	defaults := DefaultMetadata()
	values := map[string]string{
		KeyNetworkTypes:        strings.Join(defaults.NetworkTypes, ", "),
		KeyMaxNodes:            defaults.MaxNodes,
		KeyMinEdgeWeight:       defaults.MinEdgeWeight,
		KeyMinConceptRelevance: defaults.MinConceptRelevance,
		KeyMinConceptFrequency: defaults.MinConceptFrequency,
	}

	var directives []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if !strings.HasPrefix(line, CommentMarker) {
			continue
		}
		directives = append(directives, strings.TrimSpace(strings.TrimLeft(line, "-")))
	}

	for _, key := range keys {
		for _, d := range directives {
			if !strings.Contains(d, key+":") {
				continue
			}
			_, value, _ := strings.Cut(d, ":")
			values[key] = strings.TrimSpace(value)
		}
	}

	return Metadata{
		NetworkTypes:        splitList(values[KeyNetworkTypes]),
		MaxNodes:            values[KeyMaxNodes],
		MinEdgeWeight:       values[KeyMinEdgeWeight],
		MinConceptRelevance: values[KeyMinConceptRelevance],
		MinConceptFrequency: values[KeyMinConceptFrequency],
	}
}

// splitList splits a comma and/or whitespace separated list, keeping order
// and duplicates.
func splitList(s string) []string {
	return strings.Fields(strings.ReplaceAll(s, ",", " "))
}

// Params binds the directive values as typed query parameters.
func (m Metadata) Params() (network.Params, error) {
	p := network.DefaultParams()
	var err error

	if p.MaxNodes, err = parseInt(KeyMaxNodes, m.MaxNodes); err != nil {
		return network.Params{}, err
	}
	if p.MinEdgeWeight, err = parseInt(KeyMinEdgeWeight, m.MinEdgeWeight); err != nil {
		return network.Params{}, err
	}
	if p.MinConceptFrequency, err = parseInt(KeyMinConceptFrequency, m.MinConceptFrequency); err != nil {
		return network.Params{}, err
	}
	p.MinConceptRelevance, err = strconv.ParseFloat(m.MinConceptRelevance, 64)
	if err != nil {
		return network.Params{}, fmt.Errorf("%w: %s: %q is not a number", network.ErrInvalidMetadata, KeyMinConceptRelevance, m.MinConceptRelevance)
	}

	if err := p.Validate(); err != nil {
		return network.Params{}, err
	}
	return p, nil
}

func parseInt(key, value string) (int64, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %q is not an integer", network.ErrInvalidMetadata, key, value)
	}
	return n, nil
}

// Kinds resolves NetworkTypes to kinds, dropping repeats while keeping the
// first-seen order. Unrecognized entries are returned as errors alongside
// the valid kinds; they never prevent the valid ones from running.
func (m Metadata) Kinds() ([]network.Kind, []error) {
	var kinds []network.Kind
	var errs []error
	seen := make(map[network.Kind]bool)

	for _, name := range m.NetworkTypes {
		k, err := network.ParseKind(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		kinds = append(kinds, k)
	}
	return kinds, errs
}
