// Package backend runs composed network queries against a data source.
package backend

import (
	"context"
	"fmt"

	"github.com/matsen/dimnet/internal/config"
	"github.com/matsen/dimnet/internal/network"
	"github.com/matsen/dimnet/internal/query"
)

// Backend executes a composed query and returns its rows unchanged.
// Rows are not trusted; the graph builder validates them.
type Backend interface {
	Query(ctx context.Context, q query.Query) ([]network.Row, error)
	Dialect() query.Dialect
	Close() error
}

// QueryError reports a query the backend could not run. It matches
// network.ErrQueryFailed and carries the query for diagnostics.
type QueryError struct {
	Query query.Query
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%v: %s query: %v", network.ErrQueryFailed, e.Query.Kind, e.Err)
}

func (e *QueryError) Unwrap() []error {
	return []error{network.ErrQueryFailed, e.Err}
}

func queryFailed(q query.Query, err error) error {
	return &QueryError{Query: q, Err: err}
}

// Open returns the backend selected by s.Backend.
func Open(ctx context.Context, s config.Settings) (Backend, error) {
	switch s.Backend {
	case config.BackendSQLite:
		return OpenSQLite(s.SnapshotPath)
	case config.BackendBigQuery:
		return NewBigQuery(ctx,
			WithProject(s.Project),
			WithCredentialsFile(s.CredentialsFile),
			WithQueryRate(s.QueryRate),
		)
	default:
		return nil, fmt.Errorf("%w: backend %q", config.ErrInvalidConfig, s.Backend)
	}
}
