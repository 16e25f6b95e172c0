// Package enginetest provides a scripted [engine.Engine] for tests.
//
//	e := enginetest.New()
//	e.Add("org.typelevel:cats-core_2.13:2.10.0", "org.typelevel:cats-kernel_2.13:2.10.0")
//	res, err := e.Resolve(ctx, req)
//
// Modules are leaves unless given dependencies. Every resolved module yields
// a main artifact at /fake/<org>/<name>-<version>.jar and, when requested, a
// sources artifact. Modules listed with [Engine.WithoutSources] report an
// empty path for sources, which is how real engines report a missing
// classified jar.
package enginetest

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/matzehuels/stackfetch/pkg/dag"
	"github.com/matzehuels/stackfetch/pkg/dependency"
	"github.com/matzehuels/stackfetch/pkg/engine"
	"github.com/matzehuels/stackfetch/pkg/repository"
)

// Engine is a scripted resolution engine. It is safe for concurrent use.
type Engine struct {
	mu        sync.Mutex
	deps      map[string][]string // "org:name:version" -> dependencies
	noSources map[string]bool
	failures  map[string]error // "org:name" -> error
	requests  []engine.Request
}

// New creates an empty scripted engine.
func New() *Engine {
	return &Engine{
		deps:      make(map[string][]string),
		noSources: make(map[string]bool),
		failures:  make(map[string]error),
	}
}

// Add declares that module (org:name:version) depends on deps.
func (e *Engine) Add(module string, deps ...string) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.deps[module] = append(e.deps[module], deps...)
	return e
}

// WithoutSources marks module (org:name:version) as publishing no sources jar.
func (e *Engine) WithoutSources(module string) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.noSources[module] = true
	return e
}

// Fail makes every request naming module (org:name) as a root fail with err.
func (e *Engine) Fail(module string, err error) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failures[module] = err
	return e
}

// Requests returns the requests received so far.
func (e *Engine) Requests() []engine.Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.requests)
}

// RequestFor returns the first request whose roots include module (org:name).
func (e *Engine) RequestFor(module string) (engine.Request, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range e.requests {
		for _, d := range r.Dependencies {
			if d.Module.String() == module {
				return r, true
			}
		}
	}
	return engine.Request{}, false
}

// Resolve walks the scripted graph breadth-first. Forced pins replace the
// version of any module they name; intransitive roots are not expanded.
func (e *Engine) Resolve(ctx context.Context, req engine.Request) (*engine.Result, error) {
	e.mu.Lock()
	e.requests = append(e.requests, req)
	e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, d := range req.Dependencies {
		if err, ok := e.failures[d.Module.String()]; ok {
			return nil, err
		}
	}

	pins := dependency.PinMap(req.Force)
	var fallback *repository.Fallback
	for _, r := range req.Repositories {
		if fb, ok := r.(*repository.Fallback); ok {
			fallback = fb
		}
	}

	type item struct {
		dep    dependency.Resolved
		parent string
		depth  int
	}
	graph := dag.New(nil)
	selected := make(map[dependency.ModuleID]string)
	var order []dependency.Resolved

	queue := make([]item, 0, len(req.Dependencies))
	for _, d := range req.Dependencies {
		queue = append(queue, item{dep: d})
	}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]

		d := it.dep
		if v, ok := pins[d.Module]; ok {
			d.Version = v
		}
		id := d.String()
		if v, ok := selected[d.Module]; ok {
			if it.parent != "" {
				_ = graph.AddEdge(dag.Edge{From: it.parent, To: d.Module.String() + ":" + v})
			}
			continue
		}
		selected[d.Module] = d.Version
		order = append(order, d)
		_ = graph.AddNode(dag.Node{ID: id, Depth: it.depth})
		if it.parent != "" {
			_ = graph.AddEdge(dag.Edge{From: it.parent, To: id})
		}

		if d.Attributes.Intransitive {
			continue
		}
		for _, child := range e.deps[id] {
			parts := strings.Split(child, ":")
			if len(parts) != 3 {
				return nil, fmt.Errorf("enginetest: bad module %q", child)
			}
			queue = append(queue, item{
				dep:    dependency.Resolved{Module: dependency.ModuleID{Org: parts[0], Name: parts[1]}, Version: parts[2]},
				parent: id,
				depth:  it.depth + 1,
			})
		}
	}

	res := &engine.Result{Graph: graph}
	for _, d := range order {
		id := d.String()
		if req.MainRequested() {
			art := engine.Artifact{URL: "https://fake.repo/" + id + ".jar"}
			if fallback != nil {
				if entry, ok := fallback.Lookup(d.Module, d.Version); ok {
					art = engine.Artifact{URL: entry.URL, Changing: entry.Changing}
				}
			}
			res.Artifacts = append(res.Artifacts, engine.DetailedArtifact{
				Dependency:  d,
				Publication: engine.Publication{Name: d.Module.Name, Type: "jar", Ext: "jar"},
				Artifact:    art,
				Path:        Path(d.Module.Org, d.Module.Name, d.Version, ""),
			})
		}
		for _, c := range req.ClassifiersRequested() {
			path := Path(d.Module.Org, d.Module.Name, d.Version, c)
			if c == "sources" && e.noSources[id] {
				path = ""
			}
			res.Artifacts = append(res.Artifacts, engine.DetailedArtifact{
				Dependency:  d,
				Publication: engine.Publication{Name: d.Module.Name, Type: classifierType(c), Ext: "jar", Classifier: c},
				Artifact:    engine.Artifact{URL: "https://fake.repo/" + id + "-" + c + ".jar"},
				Path:        path,
			})
		}
	}
	return res, nil
}

// Path returns the fake local path for a module artifact.
func Path(org, name, version, classifier string) string {
	if classifier != "" {
		return fmt.Sprintf("/fake/%s/%s-%s-%s.jar", org, name, version, classifier)
	}
	return fmt.Sprintf("/fake/%s/%s-%s.jar", org, name, version)
}

func classifierType(c string) string {
	if c == "sources" {
		return "src"
	}
	return "jar"
}

var _ engine.Engine = (*Engine)(nil)
