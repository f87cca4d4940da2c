// Package query composes the aggregation queries that turn a topic's subset
// query into pairwise (source, target, weight) rows.
package query

import (
	"fmt"
	"strings"

	"github.com/matsen/dimnet/internal/network"
)

// ParamType is the declared type of a bound query parameter.
type ParamType string

// Supported parameter types.
const (
	Int64   ParamType = "INT64"
	Numeric ParamType = "NUMERIC"
	String  ParamType = "STRING"
)

// Param is a named, typed query parameter.
type Param struct {
	Name  string    `json:"name"`
	Type  ParamType `json:"type"`
	Value any       `json:"value"`
}

// Query is a composed query ready to submit to a backend.
type Query struct {
	Kind   network.Kind `json:"-"`
	Text   string       `json:"text"`
	Params []Param      `json:"params"`
}

// Dialect selects the SQL flavor of the templates.
type Dialect int

const (
	// BigQuery targets the Dimensions dataset on Google BigQuery.
	BigQuery Dialect = iota + 1
	// SQLite targets a local, normalized publication snapshot.
	SQLite
)

func (d Dialect) String() string {
	switch d {
	case BigQuery:
		return "bigquery"
	case SQLite:
		return "sqlite"
	default:
		return fmt.Sprintf("dialect(%d)", int(d))
	}
}

// Composer builds queries for one dialect and dataset.
type Composer struct {
	dialect Dialect
	dataset string
}

// NewComposer returns a Composer. dataset qualifies table names for the
// BigQuery dialect and is ignored by SQLite.
func NewComposer(dialect Dialect, dataset string) *Composer {
	return &Composer{dialect: dialect, dataset: dataset}
}

// Dialect returns the composer's dialect.
func (c *Composer) Dialect() Dialect {
	return c.dialect
}

// Compose builds the aggregation query for kind around subset. The subset
// SQL is trusted and inserted verbatim as a common table expression; every
// value in params is bound, never interpolated.
func (c *Composer) Compose(kind network.Kind, subset string, params network.Params) (Query, error) {
	tmpl, ok := templates[c.dialect][kind]
	if !ok {
		return Query{}, fmt.Errorf("%w: %s for %s", network.ErrUnsupportedKind, kind, c.dialect)
	}
	if err := params.Validate(); err != nil {
		return Query{}, err
	}

	text := strings.NewReplacer(
		"{{subset}}", trimSubset(subset),
		"{{dataset}}", c.dataset,
	).Replace(tmpl.text)

	return Query{
		Kind:   kind,
		Text:   text,
		Params: tmpl.bind(params),
	}, nil
}

// trimSubset drops trailing whitespace and statement terminators so the
// subset can sit inside a CTE.
func trimSubset(s string) string {
	return strings.TrimRight(s, " \t\r\n;")
}

func organizationParams(p network.Params) []Param {
	return []Param{
		{Name: "max_nodes", Type: Int64, Value: p.MaxNodes},
		{Name: "min_edge_weight", Type: Int64, Value: p.MinEdgeWeight},
	}
}

func conceptParams(p network.Params) []Param {
	return []Param{
		{Name: "max_nodes", Type: Int64, Value: p.MaxNodes},
		{Name: "min_edge_weight", Type: Int64, Value: p.MinEdgeWeight},
		{Name: "min_concept_relevance", Type: Numeric, Value: p.MinConceptRelevance},
		{Name: "min_concept_frequency", Type: Int64, Value: p.MinConceptFrequency},
		{Name: "min_year", Type: Int64, Value: p.MinYear},
	}
}
