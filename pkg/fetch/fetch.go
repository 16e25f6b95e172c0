package fetch

import (
	"context"
	"slices"
	"time"

	"github.com/matzehuels/stackfetch/pkg/dag"
	"github.com/matzehuels/stackfetch/pkg/dependency"
	"github.com/matzehuels/stackfetch/pkg/engine"
	"github.com/matzehuels/stackfetch/pkg/errors"
	"github.com/matzehuels/stackfetch/pkg/forcing"
	"github.com/matzehuels/stackfetch/pkg/observability"
	"github.com/matzehuels/stackfetch/pkg/position"
	"github.com/matzehuels/stackfetch/pkg/repository"
	"github.com/matzehuels/stackfetch/pkg/scala"
)

// MainClassifier in [Params.Classifiers] requests unclassified artifacts.
const MainClassifier = "_"

// SourcesClassifier names source jars.
const SourcesClassifier = "sources"

// Params describes one fetch.
type Params struct {
	// Label names the fetch in logs and hooks ("main", "compiler", ...).
	Label string

	Dependencies []position.Positioned[dependency.Dependency]
	Repositories []repository.Repository
	Scala        *scala.Params // Nil when no Scala toolchain is involved
	Force        []dependency.Pin

	// Classifiers selects artifacts. Nil leaves the choice to the engine;
	// otherwise MainClassifier requests main jars and every other entry names
	// an extra classifier such as SourcesClassifier.
	Classifiers []string

	Recover Recover
}

// Result is the outcome of a fetch. Every artifact has a local file.
type Result struct {
	Artifacts []engine.DetailedArtifact
	Graph     *dag.DAG
}

// Fetch resolves params.Dependencies with e.
//
// Dependencies that cannot be converted for lack of a Scala version are
// offered to params.Recover one by one; recovered ones are dropped, and if
// any is surfaced all surfaced errors are returned together as a composite
// error before the engine is called. An engine failure is wrapped as
// ErrCodeFetchingDependencies with the positions of every dependency and
// offered to params.Recover; when recovered, Fetch returns an empty Result.
// A failure after ctx is done returns ctx.Err() and is never recovered.
func Fetch(ctx context.Context, e engine.Engine, params Params) (*Result, error) {
	label := params.Label
	if label == "" {
		label = "dependencies"
	}

	deps, err := convert(params)
	if err != nil {
		return nil, err
	}

	req := Request(deps, params)
	hooks := observability.Fetch()
	hooks.OnFetchStart(ctx, label, len(deps))
	start := time.Now()

	res, err := e.Resolve(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			hooks.OnFetchComplete(ctx, label, 0, time.Since(start), ctxErr)
			return nil, ctxErr
		}
		wrapped := errors.Wrap(errors.ErrCodeFetchingDependencies, err, "fetching %s", label).
			WithPositions(position.All(params.Dependencies)...)
		hooks.OnFetchComplete(ctx, label, 0, time.Since(start), wrapped)
		if surfaced := params.Recover.apply(wrapped); surfaced != nil {
			return nil, surfaced
		}
		hooks.OnRecovered(ctx, label, wrapped)
		return &Result{}, nil
	}

	out := &Result{Graph: res.Graph}
	for _, a := range res.Artifacts {
		if a.Path != "" {
			out.Artifacts = append(out.Artifacts, a)
		}
	}
	hooks.OnFetchComplete(ctx, label, len(out.Artifacts), time.Since(start), nil)
	return out, nil
}

// convert resolves every template. Missing-Scala-version failures go
// through the recovery policy individually; other conversion failures are
// surfaced as they are.
func convert(params Params) ([]dependency.Resolved, error) {
	deps := make([]dependency.Resolved, 0, len(params.Dependencies))
	var surfaced []error
	for _, pd := range params.Dependencies {
		r, err := pd.Value.Resolve(params.Scala)
		if err == nil {
			deps = append(deps, r)
			continue
		}
		if e, ok := err.(*errors.Error); ok {
			err = e.WithPositions(pd.Positions...)
		}
		if errors.Is(err, errors.ErrCodeMissingScalaVersion) {
			err = params.Recover.apply(err)
		}
		if err != nil {
			surfaced = append(surfaced, err)
		}
	}
	if len(surfaced) > 0 {
		return nil, errors.Aggregate(surfaced...)
	}
	return deps, nil
}

// Request builds the engine request for already converted dependencies.
// Repositories get a fallback repository appended when any dependency
// carries a URL override.
func Request(deps []dependency.Resolved, params Params) engine.Request {
	repos := slices.Clone(params.Repositories)
	if fb := repository.FallbackFor(deps); fb.Len() > 0 {
		repos = append(repos, fb)
	}

	req := engine.Request{
		Dependencies: deps,
		Repositories: repos,
		Force:        forcing.Versions(params.Scala, params.Force...),
	}
	if params.Classifiers == nil {
		req.DefaultArtifacts = true
		return req
	}
	for _, c := range params.Classifiers {
		if c == MainClassifier {
			req.MainArtifacts = true
			continue
		}
		if !slices.Contains(req.Classifiers, c) {
			req.Classifiers = append(req.Classifiers, c)
		}
	}
	return req
}
