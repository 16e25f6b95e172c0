package artifacts

import (
	"context"
	stderrors "errors"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/stackfetch/pkg/dependency"
	"github.com/matzehuels/stackfetch/pkg/engine"
	"github.com/matzehuels/stackfetch/pkg/errors"
	"github.com/matzehuels/stackfetch/pkg/fetch"
	"github.com/matzehuels/stackfetch/pkg/position"
	"github.com/matzehuels/stackfetch/pkg/repository"
)

// DefaultWorkers bounds the sub-fetches of one phase running at once.
const DefaultWorkers = 4

const (
	scalaJSCLIName = "scalajscli_2.13"
	scalaJSLinker  = "scalajs-linker_2.13"
	nativeCLIName  = "scala-native-cli_2.12"
	stubsName      = "stubs"
	runnerName     = "runner"
)

// Sub-fetch labels, as reported to logs and hooks.
const (
	labelCompiler  = "compiler"
	labelPlugins   = "compiler-plugins"
	labelJSCLI     = "js-cli"
	labelNativeCLI = "native-cli"
	labelMain      = "main"
	labelJavac     = "javac-plugins"
	labelStubs     = "stubs"
	labelRunner    = "runner"
)

// Runner fetches artifact bundles.
type Runner struct {
	Engine  engine.Engine
	Logger  *log.Logger
	Workers int

	// Progress receives the label of the main download. Nil logs it at
	// info level.
	Progress func(msg string)
}

// NewRunner creates a Runner with default settings.
func NewRunner(e engine.Engine, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(os.Stderr)
		logger.SetLevel(log.WarnLevel)
	}
	return &Runner{Engine: e, Logger: logger, Workers: DefaultWorkers}
}

// Run fetches the toolchain, then the main dependency set and its companions.
// On failure no bundle is returned; the error is a composite when several
// sub-fetches of a phase failed.
func (r *Runner) Run(ctx context.Context, params Params) (*Bundle, error) {
	if len(params.Repositories) == 0 {
		params.Repositories = repository.Default()
	}

	var sb *ScalaBundle
	if params.Scala != nil {
		var err error
		if sb, err = r.toolchain(ctx, params); err != nil {
			return nil, err
		}
	}

	set := BuildDependencySet(params, sb)
	b := &Bundle{
		UserDependencies:     slices.Clone(set.User),
		InternalDependencies: slices.Concat(set.Extra, set.Internal),
		ExtraClassPath:       slices.Clone(params.ExtraClassPath),
		ExtraSourceJars:      slices.Clone(params.ExtraSourceJars),
		ExtraJavacPlugins:    slices.Clone(params.ExtraJavacPlugins),
		Scala:                sb,
		userRoots:            userRoots(set.User, params),
	}

	var (
		mainRes, stubsRes, runnerRes *fetch.Result
		javac                        []PluginArtifact
	)
	err := r.phase(ctx,
		func(ctx context.Context) error {
			r.progress(set.Progress())
			classifiers := []string{fetch.MainClassifier}
			if params.FetchSources {
				classifiers = append(classifiers, fetch.SourcesClassifier)
			}
			var err error
			mainRes, err = r.fetch(ctx, fetch.Params{
				Label:        labelMain,
				Dependencies: set.All(),
				Repositories: repository.WithSnapshots(params.Repositories, append(versionsOf(set.Extra), versionsOf(set.Internal)...)...),
				Scala:        params.scalaParams(),
				Classifiers:  classifiers,
				Recover:      params.Recover,
			})
			return err
		},
		func(ctx context.Context) error {
			var err error
			javac, err = r.plugins(ctx, labelJavac, params.JavacPlugins, params)
			return err
		},
		func(ctx context.Context) error {
			if !params.AddStubs {
				return nil
			}
			v := params.Versions.withDefaults().Stubs
			var err error
			stubsRes, err = r.fetch(ctx, fetch.Params{
				Label:        labelStubs,
				Dependencies: single(dependency.New(scalaCLIOrg, stubsName, v).Intransitive()),
				Repositories: repository.WithSnapshots(params.Repositories, v),
				Classifiers:  []string{fetch.MainClassifier},
				Recover:      params.Recover,
			})
			return err
		},
		func(ctx context.Context) error {
			if !params.AddJVMRunner {
				return nil
			}
			v := params.Versions.withDefaults().Runner
			var err error
			runnerRes, err = r.fetch(ctx, fetch.Params{
				Label:        labelRunner,
				Dependencies: single(toolDependency(params.scalaParams(), scalaCLIOrg, runnerName, v)),
				Repositories: repository.WithSnapshots(params.Repositories, v),
				Scala:        params.scalaParams(),
				Classifiers:  []string{fetch.MainClassifier},
				Recover:      params.Recover,
			})
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	b.DetailedArtifacts = mainRes.Artifacts
	b.graph = mainRes.Graph
	if params.KeepResolution {
		b.Resolution = mainRes.Graph
	}
	b.JavacPlugins = javac
	// A fresh slice, so bundles never share the caller's backing array.
	b.ExtraCompileOnlyJars = slices.Clone(params.ExtraCompileOnlyJars)
	for _, p := range mainPaths(stubsRes) {
		b.ExtraCompileOnlyJars = append(b.ExtraCompileOnlyJars, position.None(p))
	}
	b.ExtraRuntimeClassPath = mainPaths(runnerRes)
	return b, nil
}

// toolchain runs the first phase.
func (r *Runner) toolchain(ctx context.Context, params Params) (*ScalaBundle, error) {
	sp := params.Scala
	sb := &ScalaBundle{
		Params:               sp.Params,
		CompilerDependencies: CompilerDependencies(sp.Params),
		InternalDependencies: scalaInternal(sp),
		ExtraDependencies:    scalaExtra(sp),
	}
	err := r.phase(ctx,
		func(ctx context.Context) error {
			deps := make([]position.Positioned[dependency.Dependency], len(sb.CompilerDependencies))
			for i, d := range sb.CompilerDependencies {
				deps[i] = position.None(d)
			}
			res, err := r.fetch(ctx, fetch.Params{
				Label:        labelCompiler,
				Dependencies: deps,
				Repositories: repository.WithSnapshots(params.Repositories, sp.Params.Version),
				Scala:        params.scalaParams(),
				Classifiers:  []string{fetch.MainClassifier},
				Recover:      params.Recover,
			})
			if err != nil {
				return err
			}
			sb.CompilerArtifacts = mainPaths(res)
			return nil
		},
		func(ctx context.Context) error {
			plugins := make([]position.Positioned[dependency.Dependency], len(sp.CompilerPlugins))
			for i, p := range sp.CompilerPlugins {
				plugins[i] = position.Map(p, dependency.Dependency.Intransitive)
			}
			var err error
			sb.CompilerPlugins, err = r.plugins(ctx, labelPlugins, plugins, params)
			return err
		},
		func(ctx context.Context) error {
			if sp.JSCLIVersion == "" {
				return nil
			}
			var force []dependency.Pin
			if sp.JSVersion != "" {
				force = append(force, dependency.Pin{
					Module:  dependency.ModuleID{Org: scalaJSOrg, Name: scalaJSLinker},
					Version: sp.JSVersion,
				})
			}
			res, err := r.fetch(ctx, fetch.Params{
				Label:        labelJSCLI,
				Dependencies: single(dependency.New(scalaCLIOrg, scalaJSCLIName, sp.JSCLIVersion)),
				Repositories: repository.WithSnapshots(params.Repositories, sp.JSCLIVersion, sp.JSVersion),
				Force:        force,
				Classifiers:  []string{fetch.MainClassifier},
				Recover:      params.Recover,
			})
			if err != nil {
				return err
			}
			sb.JSCLI = mainPaths(res)
			return nil
		},
		func(ctx context.Context) error {
			if sp.NativeCLIVersion == "" {
				return nil
			}
			res, err := r.fetch(ctx, fetch.Params{
				Label:        labelNativeCLI,
				Dependencies: single(dependency.New(scalaNatOrg, nativeCLIName, sp.NativeCLIVersion)),
				Repositories: repository.WithSnapshots(params.Repositories, sp.NativeCLIVersion),
				Classifiers:  []string{fetch.MainClassifier},
				Recover:      params.Recover,
			})
			if err != nil {
				return err
			}
			sb.NativeCLI = mainPaths(res)
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return sb, nil
}

// plugins fetches plugin jars and pairs each with the module it came from.
func (r *Runner) plugins(ctx context.Context, label string, deps []position.Positioned[dependency.Dependency], params Params) ([]PluginArtifact, error) {
	if len(deps) == 0 {
		return nil, nil
	}
	res, err := r.fetch(ctx, fetch.Params{
		Label:        label,
		Dependencies: deps,
		Repositories: repository.WithSnapshots(params.Repositories, versionsOf(deps)...),
		Scala:        params.scalaParams(),
		Classifiers:  []string{fetch.MainClassifier},
		Recover:      params.Recover,
	})
	if err != nil {
		return nil, err
	}
	var out []PluginArtifact
	seen := make(map[string]bool)
	for _, a := range res.Artifacts {
		if a.Publication.Classifier != "" || seen[a.Artifact.URL] {
			continue
		}
		seen[a.Artifact.URL] = true
		out = append(out, PluginArtifact{Dependency: a.Dependency, URL: a.Artifact.URL, Path: a.Path})
	}
	return out, nil
}

// fetch runs one sub-fetch. An empty dependency list never reaches the
// engine.
func (r *Runner) fetch(ctx context.Context, p fetch.Params) (*fetch.Result, error) {
	if len(p.Dependencies) == 0 {
		return &fetch.Result{}, nil
	}
	start := time.Now()
	res, err := fetch.Fetch(ctx, r.Engine, p)
	if err != nil {
		return nil, err
	}
	r.logger().Debug("fetched", "label", p.Label, "deps", len(p.Dependencies), "artifacts", len(res.Artifacts), "duration", time.Since(start))
	return res, nil
}

// phase runs tasks concurrently. The first failure cancels the others;
// cancellations caused by a sibling's failure are not reported, and the
// remaining failures are combined in task order.
func (r *Runner) phase(ctx context.Context, tasks ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())

	errs := make([]error, len(tasks))
	for i, task := range tasks {
		g.Go(func() error {
			errs[i] = task(gctx)
			return errs[i]
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	var failed []error
	for _, err := range errs {
		if err == nil || stderrors.Is(err, context.Canceled) {
			continue
		}
		failed = append(failed, err)
	}
	return errors.Combine(failed...)
}

func (r *Runner) progress(msg string) {
	switch {
	case msg == "":
	case r.Progress != nil:
		r.Progress(msg)
	default:
		r.logger().Info(msg)
	}
}

func (r *Runner) workers() int {
	if r.Workers <= 0 {
		return DefaultWorkers
	}
	return r.Workers
}

func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}

func single(d dependency.Dependency) []position.Positioned[dependency.Dependency] {
	return []position.Positioned[dependency.Dependency]{position.None(d)}
}

func mainPaths(res *fetch.Result) []string {
	if res == nil {
		return nil
	}
	main, _ := fetch.Classify(res.Artifacts)
	return fetch.Paths(main)
}

// userRoots resolves the modules of the user's dependencies. Templates that
// cannot be resolved are skipped; the main fetch reports them.
func userRoots(deps []position.Positioned[dependency.Dependency], params Params) map[dependency.ModuleID]bool {
	roots := make(map[dependency.ModuleID]bool, len(deps))
	for _, d := range deps {
		res, err := d.Value.Resolve(params.scalaParams())
		if err != nil {
			continue
		}
		roots[res.Module] = true
	}
	return roots
}
