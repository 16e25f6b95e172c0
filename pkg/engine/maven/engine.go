package maven

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stackfetch/pkg/cache"
	"github.com/matzehuels/stackfetch/pkg/dag"
	"github.com/matzehuels/stackfetch/pkg/dependency"
	"github.com/matzehuels/stackfetch/pkg/engine"
	ferrors "github.com/matzehuels/stackfetch/pkg/errors"
	"github.com/matzehuels/stackfetch/pkg/httputil"
	"github.com/matzehuels/stackfetch/pkg/observability"
	"github.com/matzehuels/stackfetch/pkg/repository"
)

const (
	// DefaultWorkers bounds concurrent POM and artifact downloads.
	DefaultWorkers = 8

	// DefaultTTL is how long parsed POMs stay cached.
	DefaultTTL = 7 * 24 * time.Hour

	// missTTL is how long a "not in this repository" answer is remembered.
	missTTL = time.Hour

	maxParentDepth = 16
)

// Options configures an [Engine].
type Options struct {
	Dir        string      // Artifact directory (required)
	Cache      cache.Cache // Nil disables POM caching
	Keyer      cache.Keyer // Nil uses cache.DefaultKeyer
	TTL        time.Duration
	HTTP       *httputil.Client
	Workers    int
	Attempts   int           // HTTP attempts per file, default 3
	RetryDelay time.Duration // Initial retry delay, default 1s
	Logger     *log.Logger
}

// Engine is a Maven resolution engine. It is safe for concurrent use.
type Engine struct {
	dir     string
	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	http    *httputil.Client
	workers int
	retry   httputil.Policy
	logger  *log.Logger
}

// New creates an Engine.
func New(opts Options) *Engine {
	e := &Engine{
		dir:     opts.Dir,
		cache:   opts.Cache,
		keyer:   opts.Keyer,
		ttl:     opts.TTL,
		http:    opts.HTTP,
		workers: opts.Workers,
		retry: httputil.Policy{
			Attempts: opts.Attempts,
			Delay:    opts.RetryDelay,
			MaxDelay: httputil.DefaultPolicy.MaxDelay,
		},
		logger: opts.Logger,
	}
	if e.cache == nil {
		e.cache = cache.NewNullCache()
	}
	if e.keyer == nil {
		e.keyer = cache.NewDefaultKeyer()
	}
	if e.ttl == 0 {
		e.ttl = DefaultTTL
	}
	if e.http == nil {
		e.http = httputil.NewClient(nil)
	}
	if e.workers <= 0 {
		e.workers = DefaultWorkers
	}
	if e.retry.Attempts <= 0 {
		e.retry.Attempts = httputil.DefaultPolicy.Attempts
	}
	if e.retry.Delay <= 0 {
		e.retry.Delay = httputil.DefaultPolicy.Delay
	}
	if e.logger == nil {
		e.logger = log.New(os.Stderr)
		e.logger.SetLevel(log.WarnLevel)
	}
	return e
}

// retryFor returns the engine's retry policy, logging each retry of url.
func (e *Engine) retryFor(url string) httputil.Policy {
	p := e.retry
	p.OnRetry = func(attempt int, err error) {
		e.logger.Debug("retrying", "url", url, "attempt", attempt, "err", err)
	}
	return p
}

// module is a selected module and where it was found.
type module struct {
	dep         dependency.Resolved
	repo        *repository.Maven // nil for fallback-only modules
	fileVersion string
	model       *model
	fallback    *repository.Entry
	depth       int
}

type queued struct {
	dep    dependency.Resolved
	parent string
	depth  int
	excl   []exclusion
}

// Resolve implements [engine.Engine].
func (e *Engine) Resolve(ctx context.Context, req engine.Request) (*engine.Result, error) {
	repos, fallback := splitRepositories(req.Repositories)
	pins := dependency.PinMap(req.Force)

	graph := dag.New(nil)
	selected := make(map[dependency.ModuleID]string)
	var modules []*module

	level := make([]queued, 0, len(req.Dependencies))
	for _, d := range req.Dependencies {
		level = append(level, queued{dep: d})
	}

	for depth := 0; len(level) > 0; depth++ {
		var fresh []queued
		for _, q := range level {
			d := q.dep
			if v, ok := pins[d.Module]; ok {
				d.Version = v
			} else {
				d.Version = normalizeVersion(d.Version)
			}
			if v, ok := selected[d.Module]; ok {
				if q.parent != "" {
					_ = graph.AddEdge(dag.Edge{From: q.parent, To: d.Module.String() + ":" + v})
				}
				continue
			}
			selected[d.Module] = d.Version
			q.dep = d
			fresh = append(fresh, q)
			_ = graph.AddNode(dag.Node{ID: d.String(), Depth: depth})
			if q.parent != "" {
				_ = graph.AddEdge(dag.Edge{From: q.parent, To: d.String()})
			}
		}

		found := make([]*module, len(fresh))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.workers)
		for i, q := range fresh {
			g.Go(func() error {
				m, err := e.locate(gctx, repos, fallback, q.dep)
				if err != nil {
					return err
				}
				m.depth = depth
				found[i] = m
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		var next []queued
		for i, q := range fresh {
			m := found[i]
			modules = append(modules, m)
			if n, ok := graph.Node(q.dep.String()); ok && m.repo != nil {
				n.Meta["repository"] = m.repo.Root
			}
			if q.dep.Attributes.Intransitive || m.model == nil {
				continue
			}
			for _, c := range m.model.Dependencies {
				if excluded(q.excl, c.Org, c.Name) {
					continue
				}
				excl := append(append([]exclusion(nil), q.excl...), c.Exclusions...)
				next = append(next, queued{
					dep: dependency.Resolved{
						Module:     dependency.ModuleID{Org: c.Org, Name: c.Name},
						Version:    c.Version,
						Attributes: dependency.Attributes{Classifier: c.Classifier, Type: c.Type},
					},
					parent: q.dep.String(),
					depth:  depth + 1,
					excl:   excl,
				})
			}
		}
		level = next
	}

	artifacts, err := e.download(ctx, modules, req)
	if err != nil {
		return nil, err
	}
	return &engine.Result{Artifacts: artifacts, Graph: graph}, nil
}

func splitRepositories(repos []repository.Repository) ([]*repository.Maven, *repository.Fallback) {
	var maven []*repository.Maven
	var fallback *repository.Fallback
	for _, r := range repos {
		switch r := r.(type) {
		case *repository.Maven:
			maven = append(maven, r)
		case *repository.Fallback:
			fallback = r
		}
	}
	return maven, fallback
}

func excluded(excl []exclusion, org, name string) bool {
	for _, x := range excl {
		if x.matches(org, name) {
			return true
		}
	}
	return false
}

// locate finds the first repository that has d's POM.
func (e *Engine) locate(ctx context.Context, repos []*repository.Maven, fallback *repository.Fallback, d dependency.Resolved) (*module, error) {
	m := &module{dep: d}
	if fallback != nil {
		if entry, ok := fallback.Lookup(d.Module, d.Version); ok {
			m.fallback = &entry
		}
	}

	for _, repo := range repos {
		mod, fv, err := e.model(ctx, repo, repos, d.Module.Org, d.Module.Name, d.Version, 0)
		if errors.Is(err, httputil.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, networkError(d, err)
		}
		m.repo, m.fileVersion, m.model = repo, fv, mod
		e.logger.Debug("resolved", "module", d.String(), "repository", repo.Name)
		return m, nil
	}

	if m.fallback != nil {
		return m, nil
	}
	names := make([]string, len(repos))
	for i, r := range repos {
		names[i] = r.Name
	}
	return nil, ferrors.New(ferrors.ErrCodePackageNotFound, "%s not found in %s", d, strings.Join(names, ", "))
}

func networkError(d dependency.Resolved, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return ferrors.Wrap(ferrors.ErrCodeNetwork, err, "resolving %s", d)
}

// model loads the effective model of org:name:version from repo. Parent
// POMs are looked up in every repository, starting with repo.
func (e *Engine) model(ctx context.Context, repo *repository.Maven, all []*repository.Maven, org, name, version string, depth int) (*model, string, error) {
	key := e.keyer.POMKey(repo.Root, org+":"+name, version)
	cacheable := !isSnapshot(version) && !repo.IsLocal()
	if cacheable {
		if data, ok, _ := e.cache.Get(ctx, key); ok {
			var cached cachedModel
			if json.Unmarshal(data, &cached) == nil {
				observability.Cache().OnCacheHit(ctx, "pom")
				return &cached.Model, cached.FileVersion, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "pom")
	}

	chain, fv, err := e.chain(ctx, repo, all, org, name, version, depth)
	if err != nil {
		return nil, "", err
	}
	m := effective(chain)

	if cacheable {
		if data, err := json.Marshal(cachedModel{Model: *m, FileVersion: fv}); err == nil {
			if err := e.cache.Set(ctx, key, data, e.ttl); err == nil {
				observability.Cache().OnCacheSet(ctx, "pom", len(data))
			}
		}
	}
	return m, fv, nil
}

type cachedModel struct {
	Model       model  `json:"model"`
	FileVersion string `json:"file_version"`
}

// chain returns the POM of org:name:version followed by its ancestors.
func (e *Engine) chain(ctx context.Context, repo *repository.Maven, all []*repository.Maven, org, name, version string, depth int) ([]*pomProject, string, error) {
	if depth > maxParentDepth {
		return nil, "", fmt.Errorf("parent chain of %s:%s:%s is too deep", org, name, version)
	}
	fv, err := e.fileVersion(ctx, repo, org, name, version)
	if err != nil {
		return nil, "", err
	}
	url := artifactURL(repo, org, name, version, fv, "", "pom")
	data, err := e.getCached(ctx, url)
	if err != nil {
		return nil, "", err
	}
	pom, err := parsePOM(data)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", url, err)
	}

	chain := []*pomProject{pom}
	if p := pom.Parent; p != nil && p.GroupID != "" && p.ArtifactID != "" && p.Version != "" {
		parents, err := e.parentChain(ctx, repo, all, p, depth+1)
		if err != nil {
			return nil, "", err
		}
		chain = append(chain, parents...)
	}
	return chain, fv, nil
}

func (e *Engine) parentChain(ctx context.Context, first *repository.Maven, all []*repository.Maven, p *pomParent, depth int) ([]*pomProject, error) {
	order := []*repository.Maven{first}
	for _, r := range all {
		if r != first {
			order = append(order, r)
		}
	}
	for _, repo := range order {
		chain, _, err := e.chain(ctx, repo, all, p.GroupID, p.ArtifactID, p.Version, depth)
		if errors.Is(err, httputil.ErrNotFound) {
			continue
		}
		return chain, err
	}
	return nil, fmt.Errorf("parent %s:%s:%s: %w", p.GroupID, p.ArtifactID, p.Version, httputil.ErrNotFound)
}

// getCached is get with negative caching: a 404 is remembered for missTTL so
// repositories that do not carry a module are not asked again.
func (e *Engine) getCached(ctx context.Context, url string) ([]byte, error) {
	remote := !strings.HasPrefix(url, "file://")
	missKey := e.keyer.MissKey(url)
	if remote {
		if _, miss, _ := e.cache.Get(ctx, missKey); miss {
			return nil, httputil.ErrNotFound
		}
	}
	data, err := e.get(ctx, url)
	if remote && errors.Is(err, httputil.ErrNotFound) {
		_ = e.cache.Set(ctx, missKey, []byte{1}, missTTL)
	}
	return data, err
}

// localPath maps a URL to <dir>/<scheme>/<host>/<path>. URLs whose path
// would leave dir are rejected.
func (e *Engine) localPath(url string) (string, error) {
	var path string
	scheme, rest, ok := strings.Cut(url, "://")
	if !ok {
		path = filepath.Join(e.dir, "other", filepath.FromSlash(url))
	} else {
		host, p, _ := strings.Cut(rest, "/")
		host = strings.ReplaceAll(host, ":", "_")
		path = filepath.Join(e.dir, scheme, host, filepath.FromSlash(p))
	}
	rel, err := filepath.Rel(e.dir, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ferrors.New(ferrors.ErrCodeInvalidInput, "artifact URL %q escapes the artifact directory", url)
	}
	return path, nil
}
