package backend

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matsen/dimnet/internal/network"
	"github.com/matsen/dimnet/internal/query"
)

const ethicsSubset = `-- network_types: organizations, concepts
SELECT id FROM publications WHERE title LIKE '%ethics%';`

func writeSnapshot(t *testing.T, pubs []Publication) string {
	t.Helper()
	var b strings.Builder
	for _, p := range pubs {
		data, err := json.Marshal(p)
		if err != nil {
			t.Fatal(err)
		}
		b.Write(data)
		b.WriteString("\n")
	}
	path := filepath.Join(t.TempDir(), "snapshot.jsonl")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testPublications() []Publication {
	alpha := Organization{ID: "grid.1.a", Name: "Alpha"}
	beta := Organization{ID: "grid.2.b", Name: "Beta"}
	gamma := Organization{ID: "grid.3.c", Name: "Gamma"}
	return []Publication{
		{ID: "p1", Year: 2020, Title: "ethics one", ResearchOrgs: []Organization{alpha, beta},
			Concepts: []Concept{{"ethics", 0.9}, {"ai", 0.8}}},
		{ID: "p2", Year: 2021, Title: "ethics two", ResearchOrgs: []Organization{alpha, beta},
			Concepts: []Concept{{"ethics", 0.9}, {"ai", 0.7}, {"law", 0.3}}},
		{ID: "p3", Year: 2021, Title: "ethics three", ResearchOrgs: []Organization{alpha, beta, gamma},
			Concepts: []Concept{{"ethics", 0.6}, {"ai", 0.6}, {"law", 0.9}}},
		{ID: "p4", Year: 1950, Title: "ethics four", ResearchOrgs: []Organization{beta, gamma},
			Concepts: []Concept{{"ethics", 0.9}, {"ai", 0.9}}},
		{ID: "p5", Year: 2022, Title: "unrelated", ResearchOrgs: []Organization{alpha, gamma},
			Concepts: []Concept{{"ethics", 0.9}, {"ai", 0.9}}},
	}
}

func openTestSnapshot(t *testing.T) *SQLite {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "cache", "snapshot.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	n, err := db.RebuildFromJSONL(writeSnapshot(t, testPublications()))
	if err != nil {
		t.Fatalf("RebuildFromJSONL() error = %v", err)
	}
	if n != 5 {
		t.Fatalf("RebuildFromJSONL() = %d, want 5", n)
	}
	return db
}

func TestSQLite_Organizations(t *testing.T) {
	db := openTestSnapshot(t)
	composer := query.NewComposer(db.Dialect(), "")

	tests := []struct {
		name   string
		params network.Params
		want   []network.Row
	}{
		{
			name:   "threshold",
			params: network.Params{MaxNodes: 10, MinEdgeWeight: 2, MinConceptRelevance: 0.5, MinYear: network.DefaultMinYear},
			want: []network.Row{
				{"Beta (grid.2.b)", "Alpha (grid.1.a)", int64(3)},
				{"Gamma (grid.3.c)", "Beta (grid.2.b)", int64(2)},
			},
		},
		{
			name:   "top nodes",
			params: network.Params{MaxNodes: 2, MinEdgeWeight: 1, MinConceptRelevance: 0.5, MinYear: network.DefaultMinYear},
			want: []network.Row{
				{"Beta (grid.2.b)", "Alpha (grid.1.a)", int64(3)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := composer.Compose(network.Organizations, ethicsSubset, tt.params)
			if err != nil {
				t.Fatalf("Compose() error = %v", err)
			}
			rows, err := db.Query(context.Background(), q)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if !reflect.DeepEqual(rows, tt.want) {
				t.Errorf("rows = %v, want %v", rows, tt.want)
			}
		})
	}
}

func TestSQLite_Concepts(t *testing.T) {
	db := openTestSnapshot(t)
	composer := query.NewComposer(db.Dialect(), "")

	params := network.Params{
		MaxNodes:            10,
		MinEdgeWeight:       1,
		MinConceptRelevance: 0.5,
		MinConceptFrequency: 2,
		MinYear:             network.DefaultMinYear,
	}
	q, err := composer.Compose(network.Concepts, ethicsSubset, params)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	rows, err := db.Query(context.Background(), q)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	// law falls below the frequency floor; p4 predates min_year; p5 is
	// outside the subset.
	want := []network.Row{{"ethics", "ai", int64(3)}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %v, want %v", rows, want)
	}
}

func TestSQLite_QueryError(t *testing.T) {
	db := openTestSnapshot(t)

	q := query.Query{Kind: network.Concepts, Text: "SELECT nope FROM missing_table"}
	_, err := db.Query(context.Background(), q)
	if !errors.Is(err, network.ErrQueryFailed) {
		t.Fatalf("Query() error = %v, want ErrQueryFailed", err)
	}
	var qerr *QueryError
	if !errors.As(err, &qerr) || qerr.Query.Text != q.Text {
		t.Errorf("error should carry the query, got %v", err)
	}
}

func TestSQLite_RebuildReplaces(t *testing.T) {
	db := openTestSnapshot(t)

	n, err := db.RebuildFromJSONL(writeSnapshot(t, testPublications()[:2]))
	if err != nil {
		t.Fatalf("RebuildFromJSONL() error = %v", err)
	}
	count, err := db.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 || count != 2 {
		t.Errorf("after rebuild: loaded %d, count %d; want 2, 2", n, count)
	}
}

func TestSQLite_RebuildErrors(t *testing.T) {
	db := openTestSnapshot(t)

	if _, err := db.RebuildFromJSONL(filepath.Join(t.TempDir(), "missing.jsonl")); !errors.Is(err, network.ErrIO) {
		t.Errorf("missing snapshot: error = %v, want ErrIO", err)
	}

	dup := testPublications()[:1]
	dup = append(dup, dup[0])
	if _, err := db.RebuildFromJSONL(writeSnapshot(t, dup)); !errors.Is(err, network.ErrMalformedRow) {
		t.Errorf("duplicate id: error = %v, want ErrMalformedRow", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.jsonl")
	if err := os.WriteFile(bad, []byte("{\"id\": \"p1\"}\nnot json\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := db.RebuildFromJSONL(bad); !errors.Is(err, network.ErrMalformedRow) {
		t.Errorf("bad line: error = %v, want ErrMalformedRow", err)
	}

	// A failed rebuild leaves the previous snapshot in place.
	count, err := db.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 5 {
		t.Errorf("count after failed rebuilds = %d, want 5", count)
	}
}
