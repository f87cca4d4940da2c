package backend

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"testing"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/matsen/dimnet/internal/network"
	"github.com/matsen/dimnet/internal/query"
)

func TestBigQueryParams(t *testing.T) {
	params := []query.Param{
		{Name: "max_nodes", Type: query.Int64, Value: int64(500)},
		{Name: "min_year", Type: query.Int64, Value: 1965},
		{Name: "min_concept_relevance", Type: query.Numeric, Value: 0.5},
		{Name: "label", Type: query.String, Value: "x"},
	}

	got, err := bigQueryParams(params)
	if err != nil {
		t.Fatalf("bigQueryParams() error = %v", err)
	}
	if len(got) != len(params) {
		t.Fatalf("got %d params, want %d", len(got), len(params))
	}
	if got[0].Name != "max_nodes" || got[0].Value != int64(500) {
		t.Errorf("param 0 = %+v", got[0])
	}
	if got[1].Value != int64(1965) {
		t.Errorf("int should widen to int64, got %T", got[1].Value)
	}
	rat, ok := got[2].Value.(*big.Rat)
	if !ok || rat.Cmp(big.NewRat(1, 2)) != 0 {
		t.Errorf("NUMERIC param = %v (%T), want 1/2 as *big.Rat", got[2].Value, got[2].Value)
	}
	if got[3].Value != "x" {
		t.Errorf("param 3 = %+v", got[3])
	}
}

func TestBigQueryParams_Invalid(t *testing.T) {
	tests := []query.Param{
		{Name: "a", Type: query.Int64, Value: "500"},
		{Name: "b", Type: query.Numeric, Value: math.NaN()},
		{Name: "c", Type: query.Numeric, Value: math.Inf(1)},
		{Name: "d", Type: query.String, Value: 3},
		{Name: "e", Type: query.ParamType("BYTES"), Value: []byte("x")},
	}
	for _, p := range tests {
		if _, err := bigQueryParams([]query.Param{p}); err == nil {
			t.Errorf("bigQueryParams(%+v) should fail", p)
		}
	}
}

type fakeIterator struct {
	rows [][]bigquery.Value
	err  error
	pos  int
}

func (f *fakeIterator) Next(dst interface{}) error {
	if f.pos >= len(f.rows) {
		if f.err != nil {
			return f.err
		}
		return iterator.Done
	}
	*(dst.(*[]bigquery.Value)) = f.rows[f.pos]
	f.pos++
	return nil
}

func TestCollectRows(t *testing.T) {
	it := &fakeIterator{rows: [][]bigquery.Value{
		{"a", "b", int64(5)},
		{"b", "c", int64(3)},
	}}

	rows, err := collectRows(it)
	if err != nil {
		t.Fatalf("collectRows() error = %v", err)
	}
	want := []network.Row{{"a", "b", int64(5)}, {"b", "c", int64(3)}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %v, want %v", rows, want)
	}

	empty, err := collectRows(&fakeIterator{})
	if err != nil || len(empty) != 0 {
		t.Errorf("collectRows(empty) = %v, %v", empty, err)
	}
}

func TestCollectRows_Error(t *testing.T) {
	boom := errors.New("boom")
	it := &fakeIterator{rows: [][]bigquery.Value{{"a", "b", int64(1)}}, err: boom}

	if _, err := collectRows(it); !errors.Is(err, boom) {
		t.Errorf("collectRows() error = %v, want %v", err, boom)
	}
}

func TestQueryError(t *testing.T) {
	cause := fmt.Errorf("access denied")
	err := queryFailed(query.Query{Kind: network.Organizations, Text: "SELECT 1"}, cause)

	if !errors.Is(err, network.ErrQueryFailed) || !errors.Is(err, cause) {
		t.Errorf("QueryError should match both the sentinel and the cause: %v", err)
	}
	if got := err.Error(); got != "query failed: organizations query: access denied" {
		t.Errorf("Error() = %q", got)
	}
}
