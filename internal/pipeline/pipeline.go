// Package pipeline turns topic files into network files, one topic and one
// kind at a time.
package pipeline

import (
	"context"
	"errors"

	"github.com/matsen/dimnet/internal/backend"
	"github.com/matsen/dimnet/internal/config"
	"github.com/matsen/dimnet/internal/graph"
	"github.com/matsen/dimnet/internal/logger"
	"github.com/matsen/dimnet/internal/network"
	"github.com/matsen/dimnet/internal/query"
	"github.com/matsen/dimnet/internal/topic"
	"github.com/matsen/dimnet/internal/viz"
)

// Runner generates networks for topic files.
type Runner struct {
	Settings config.Settings
	Backend  backend.Backend
	Composer *query.Composer
}

// NewRunner returns a Runner composing queries in the backend's dialect.
func NewRunner(s config.Settings, b backend.Backend) *Runner {
	return &Runner{
		Settings: s,
		Backend:  b,
		Composer: query.NewComposer(b.Dialect(), s.Dataset),
	}
}

// Run processes every file in in. Failures are recorded in the report and
// the run carries on; the returned error is non-nil only when in names a
// single topic file that cannot be read.
func (r *Runner) Run(ctx context.Context, in *topic.Input) (*Report, error) {
	report := &Report{}
	for _, file := range in.Files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res, err := r.runTopic(ctx, file)
		report.Topics = append(report.Topics, res)
		if err != nil && in.Explicit && len(in.Files) == 1 {
			return report, err
		}
	}
	return report, nil
}

func (r *Runner) runTopic(ctx context.Context, file string) (TopicResult, error) {
	id := topic.ID(file)
	res := TopicResult{Topic: id, File: file, Status: StatusDone}
	logger.Info("processing topic", "topic", id, "file", file)

	tf, err := topic.Load(file)
	if err != nil {
		logger.Error("topic failed", "topic", id, "err", err)
		res.Status = StatusFailed
		res.Error = err.Error()
		return res, err
	}

	md := tf.Metadata
	logger.Debug("metadata", "topic", id, "network_types", md.NetworkTypes,
		"max_nodes", md.MaxNodes, "min_edge_weight", md.MinEdgeWeight,
		"min_concept_relevance", md.MinConceptRelevance, "min_concept_frequency", md.MinConceptFrequency)

	params, err := md.Params()
	if err != nil {
		logger.Error("topic skipped", "topic", id, "err", err)
		res.Status = StatusSkipped
		res.Error = err.Error()
		return res, nil
	}

	kinds, kindErrs := md.Kinds()
	for _, kerr := range kindErrs {
		logger.Warn("network type skipped", "topic", id, "err", kerr, "valid", network.KindNames())
		res.Kinds = append(res.Kinds, KindResult{Kind: unsupportedName(kerr), Status: StatusSkipped, Error: kerr.Error()})
	}

	for _, kind := range kinds {
		if err := ctx.Err(); err != nil {
			res.Kinds = append(res.Kinds, KindResult{Kind: kind.String(), Status: StatusFailed, Error: err.Error()})
			continue
		}
		res.Kinds = append(res.Kinds, r.runKind(ctx, id, file, tf.Subset, kind, params))
	}
	return res, nil
}

func (r *Runner) runKind(ctx context.Context, id, file, subset string, kind network.Kind, params network.Params) KindResult {
	res := KindResult{Kind: kind.String()}
	fail := func(err error) KindResult {
		logger.Error("network failed", "topic", id, "kind", kind, "err", err)
		res.Status = StatusFailed
		res.Error = err.Error()
		return res
	}

	q, err := r.Composer.Compose(kind, subset, params)
	if err != nil {
		return fail(err)
	}
	logger.Debug("query", "topic", id, "kind", kind, "params", q.Params)

	rows, err := r.Backend.Query(ctx, q)
	if err != nil {
		var qerr *backend.QueryError
		if errors.As(err, &qerr) {
			logger.Debug("failed query", "topic", id, "kind", kind, "text", qerr.Query.Text)
		}
		return fail(err)
	}
	logger.Debug("rows retrieved", "topic", id, "kind", kind, "rows", len(rows))

	g, err := graph.Build(rows, kind, graph.Options{MinEdgeWeight: params.MinEdgeWeight, BaseURL: r.Settings.BaseURL})
	if err != nil {
		return fail(err)
	}

	out, err := viz.Write(g, viz.WriteOptions{
		OutputPath:     r.Settings.JSONPath(kind, id),
		SQLPath:        file,
		ProvenancePath: r.Settings.SQLPath(id),
		BaseURL:        r.Settings.BaseURL,
	})
	if err != nil {
		return fail(err)
	}

	res.Items, res.Links = out.Items, out.Links
	if !out.Written {
		logger.Warn("empty network, nothing written", "topic", id, "kind", kind)
		res.Status = StatusEmpty
		return res
	}
	res.Status = StatusWritten
	res.Path = out.Path
	logger.Info("network written", "topic", id, "kind", kind, "items", out.Items, "links", out.Links, "path", out.Path)
	return res
}

// unsupportedName recovers the offending entry from a ParseKind error.
func unsupportedName(err error) string {
	var kerr *network.KindError
	if errors.As(err, &kerr) {
		return kerr.Name
	}
	return ""
}
