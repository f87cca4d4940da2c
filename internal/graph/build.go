package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"net/url"
	"strconv"
	"strings"

	"github.com/matsen/dimnet/internal/network"
)

// CustomSearchPlaceholder marks where a node or link fragment goes in the
// base URL pattern.
const CustomSearchPlaceholder = "{custom_search}"

// InstitutionPrefix starts the institution code inside an organization
// identifier such as "King's College London (grid.13097.3c)".
const InstitutionPrefix = "grid."

// Options configure Build.
type Options struct {
	// MinEdgeWeight is re-checked against every row.
	MinEdgeWeight int64
	// BaseURL is the deep-link pattern containing CustomSearchPlaceholder.
	BaseURL string
}

// Build turns result rows into a graph. Rows must be (source, target,
// weight) with a weight of at least opts.MinEdgeWeight; any row that is
// not fails the whole build. Links keep the row order. An empty row set
// yields an empty graph.
func Build(rows []network.Row, kind network.Kind, opts Options) (*Graph, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", network.ErrUnsupportedKind, kind)
	}

	g := &Graph{
		Kind:        kind,
		Items:       make(map[string]Item),
		Links:       make([]Link, 0, len(rows)),
		Terminology: kind.Terminology(),
	}
	seen := make(map[[2]string]bool, len(rows))

	for i, row := range rows {
		source, target, weight, err := parseRow(i, row)
		if err != nil {
			return nil, err
		}
		if weight < 0 || weight < opts.MinEdgeWeight {
			return nil, &RowError{Index: i, Reason: fmt.Sprintf("weight %d below minimum %d", weight, max(opts.MinEdgeWeight, 0))}
		}
		if source == target {
			return nil, &RowError{Index: i, Reason: fmt.Sprintf("self link on %q", source)}
		}
		pair := unorderedPair(source, target)
		if seen[pair] {
			return nil, &RowError{Index: i, Reason: fmt.Sprintf("duplicate link %q - %q", source, target)}
		}
		seen[pair] = true

		sourceSearch, err := nodeSearch(kind, source)
		if err != nil {
			return nil, &RowError{Index: i, Reason: err.Error()}
		}
		targetSearch, err := nodeSearch(kind, target)
		if err != nil {
			return nil, &RowError{Index: i, Reason: err.Error()}
		}

		g.addItem(source, sourceSearch)
		g.addItem(target, targetSearch)

		search := linkSearch(kind, sourceSearch, targetSearch)
		g.Links = append(g.Links, Link{
			SourceID:     source,
			TargetID:     target,
			Strength:     weight,
			CustomSearch: search,
			URL:          strings.ReplaceAll(opts.BaseURL, CustomSearchPlaceholder, search),
		})
	}

	return g, nil
}

func (g *Graph) addItem(id, search string) {
	if _, ok := g.Items[id]; ok {
		return
	}
	g.Items[id] = Item{ID: id, Label: id, CustomSearch: search}
}

func unorderedPair(a, b string) [2]string {
	if a > b {
		return [2]string{b, a}
	}
	return [2]string{a, b}
}

// parseRow checks arity and coerces the row's values.
func parseRow(i int, row network.Row) (string, string, int64, error) {
	if len(row) != 3 {
		return "", "", 0, &RowError{Index: i, Reason: fmt.Sprintf("expected 3 columns, got %d", len(row))}
	}
	source, ok := row[0].(string)
	if !ok || source == "" {
		return "", "", 0, &RowError{Index: i, Reason: fmt.Sprintf("source id %v is not a non-empty string", row[0])}
	}
	target, ok := row[1].(string)
	if !ok || target == "" {
		return "", "", 0, &RowError{Index: i, Reason: fmt.Sprintf("target id %v is not a non-empty string", row[1])}
	}
	weight, err := coerceWeight(row[2])
	if err != nil {
		return "", "", 0, &RowError{Index: i, Reason: err.Error()}
	}
	return source, target, weight, nil
}

// coerceWeight converts the weight column to an integer.
func coerceWeight(v any) (int64, error) {
	switch w := v.(type) {
	case int64:
		return w, nil
	case int:
		return int64(w), nil
	case int32:
		return int64(w), nil
	case float64:
		if w != math.Trunc(w) || math.IsInf(w, 0) || math.IsNaN(w) {
			return 0, fmt.Errorf("weight %v is not an integer", w)
		}
		if w < math.MinInt64 || w >= 1<<63 {
			return 0, fmt.Errorf("weight %v out of range", w)
		}
		return int64(w), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(w), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("weight %q is not an integer", w)
		}
		return n, nil
	case json.Number:
		n, err := w.Int64()
		if err != nil {
			return 0, fmt.Errorf("weight %q is not an integer", w)
		}
		return n, nil
	case *big.Rat:
		if w == nil || !w.IsInt() || !w.Num().IsInt64() {
			return 0, fmt.Errorf("weight %v is not an integer", w)
		}
		return w.Num().Int64(), nil
	default:
		return 0, fmt.Errorf("weight %v has unsupported type %T", v, v)
	}
}

// nodeSearch derives the deep-link fragment of a node.
func nodeSearch(kind network.Kind, id string) (string, error) {
	switch kind {
	case network.Organizations:
		code, err := InstitutionCode(id)
		if err != nil {
			return "", err
		}
		return "&and_facet_research_org=" + code, nil
	default:
		return "%22" + escapeSearch(id) + "%22", nil
	}
}

// linkSearch combines the fragments of both endpoints.
func linkSearch(kind network.Kind, source, target string) string {
	if kind == network.Organizations {
		return source + target
	}
	return source + "%20AND%20" + target
}

// InstitutionCode extracts the institution code from an organization
// identifier: the text from the first InstitutionPrefix up to the next
// closing parenthesis.
func InstitutionCode(id string) (string, error) {
	start := strings.Index(id, InstitutionPrefix)
	if start < 0 {
		return "", fmt.Errorf("organization %q has no %s code", id, InstitutionPrefix)
	}
	end := strings.Index(id[start:], ")")
	if end < 0 {
		return "", fmt.Errorf("organization %q has an unterminated %s code", id, InstitutionPrefix)
	}
	return id[start : start+end], nil
}

// escapeSearch percent-encodes free text for a query string, with spaces
// as %20.
func escapeSearch(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
