package backend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"

	"cloud.google.com/go/bigquery"
	"golang.org/x/time/rate"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/matsen/dimnet/internal/network"
	"github.com/matsen/dimnet/internal/query"
)

// DefaultQueryRate is the number of BigQuery jobs submitted per second.
const DefaultQueryRate = 1.0

// BigQuery runs queries as BigQuery jobs.
type BigQuery struct {
	client  *bigquery.Client
	limiter *rate.Limiter

	project         string
	credentialsFile string
	queryRate       float64
}

// BigQueryOption configures a BigQuery backend.
type BigQueryOption func(*BigQuery)

// WithProject sets the billing project. Empty means detect from the
// credentials.
func WithProject(project string) BigQueryOption {
	return func(b *BigQuery) {
		b.project = project
	}
}

// WithCredentialsFile uses a service account key instead of Application
// Default Credentials.
func WithCredentialsFile(path string) BigQueryOption {
	return func(b *BigQuery) {
		b.credentialsFile = path
	}
}

// WithQueryRate sets the maximum job submissions per second.
func WithQueryRate(qps float64) BigQueryOption {
	return func(b *BigQuery) {
		if qps > 0 {
			b.queryRate = qps
		}
	}
}

// NewBigQuery creates a BigQuery backend.
func NewBigQuery(ctx context.Context, opts ...BigQueryOption) (*BigQuery, error) {
	b := &BigQuery{queryRate: DefaultQueryRate}
	for _, opt := range opts {
		opt(b)
	}

	project := b.project
	if project == "" {
		project = bigquery.DetectProjectID
	}
	var clientOpts []option.ClientOption
	if b.credentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(b.credentialsFile))
	}

	client, err := bigquery.NewClient(ctx, project, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: creating BigQuery client: %w", network.ErrQueryFailed, err)
	}
	b.client = client
	b.limiter = rate.NewLimiter(rate.Limit(b.queryRate), 1)
	return b, nil
}

// Dialect returns query.BigQuery.
func (b *BigQuery) Dialect() query.Dialect {
	return query.BigQuery
}

// Query submits q as a job and waits for all of its rows.
func (b *BigQuery) Query(ctx context.Context, q query.Query) ([]network.Row, error) {
	params, err := bigQueryParams(q.Params)
	if err != nil {
		return nil, queryFailed(q, err)
	}
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, queryFailed(q, fmt.Errorf("rate limiter: %w", err))
	}

	bq := b.client.Query(q.Text)
	bq.Parameters = params
	it, err := bq.Read(ctx)
	if err != nil {
		return nil, queryFailed(q, err)
	}

	rows, err := collectRows(it)
	if err != nil {
		return nil, queryFailed(q, err)
	}
	return rows, nil
}

// Close releases the client.
func (b *BigQuery) Close() error {
	return b.client.Close()
}

// rowIterator is the part of *bigquery.RowIterator used to drain results.
type rowIterator interface {
	Next(dst interface{}) error
}

func collectRows(it rowIterator) ([]network.Row, error) {
	var rows []network.Row
	for {
		var values []bigquery.Value
		err := it.Next(&values)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(rows), err)
		}
		row := make(network.Row, len(values))
		for i, v := range values {
			row[i] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// bigQueryParams converts bound parameters to the Go types BigQuery infers
// their declared types from.
func bigQueryParams(params []query.Param) ([]bigquery.QueryParameter, error) {
	out := make([]bigquery.QueryParameter, 0, len(params))
	for _, p := range params {
		v, err := bigQueryValue(p)
		if err != nil {
			return nil, err
		}
		out = append(out, bigquery.QueryParameter{Name: p.Name, Value: v})
	}
	return out, nil
}

func bigQueryValue(p query.Param) (any, error) {
	switch p.Type {
	case query.Int64:
		switch v := p.Value.(type) {
		case int64:
			return v, nil
		case int:
			return int64(v), nil
		}
	case query.Numeric:
		switch v := p.Value.(type) {
		case float64:
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("parameter %s: non-finite NUMERIC %v", p.Name, v)
			}
			return new(big.Rat).SetFloat64(v), nil
		case *big.Rat:
			return v, nil
		}
	case query.String:
		if v, ok := p.Value.(string); ok {
			return v, nil
		}
	default:
		return nil, fmt.Errorf("parameter %s: unsupported type %s", p.Name, p.Type)
	}
	return nil, fmt.Errorf("parameter %s: %T is not a valid %s value", p.Name, p.Value, p.Type)
}
