package artifacts

import (
	"strings"

	"github.com/matzehuels/stackfetch/pkg/dag"
	"github.com/matzehuels/stackfetch/pkg/dependency"
	"github.com/matzehuels/stackfetch/pkg/engine"
	"github.com/matzehuels/stackfetch/pkg/fetch"
	"github.com/matzehuels/stackfetch/pkg/position"
	"github.com/matzehuels/stackfetch/pkg/scala"
)

// PluginArtifact is a downloaded compiler or javac plugin jar.
type PluginArtifact struct {
	Dependency dependency.Resolved `json:"dependency"`
	URL        string              `json:"url"`
	Path       string              `json:"path"`
}

// ScalaBundle holds the toolchain fetched for a Scala build.
type ScalaBundle struct {
	Params               scala.Params            `json:"params"`
	CompilerDependencies []dependency.Dependency `json:"-"`
	CompilerArtifacts    []string                `json:"compiler_artifacts"`
	CompilerPlugins      []PluginArtifact        `json:"compiler_plugins,omitempty"`
	JSCLI                []string                `json:"js_cli,omitempty"`
	NativeCLI            []string                `json:"native_cli,omitempty"`

	InternalDependencies []position.Positioned[dependency.Dependency] `json:"-"`
	ExtraDependencies    []position.Positioned[dependency.Dependency] `json:"-"`
}

// Bundle is everything fetched for one build. Classpaths are views computed
// from the stored lists.
type Bundle struct {
	UserDependencies     []position.Positioned[dependency.Dependency] `json:"-"`
	InternalDependencies []position.Positioned[dependency.Dependency] `json:"-"`
	DetailedArtifacts    []engine.DetailedArtifact                    `json:"artifacts"`

	ExtraClassPath        []position.Positioned[string] `json:"-"`
	ExtraCompileOnlyJars  []position.Positioned[string] `json:"-"`
	ExtraSourceJars       []position.Positioned[string] `json:"-"`
	ExtraJavacPlugins     []position.Positioned[string] `json:"-"`
	JavacPlugins          []PluginArtifact              `json:"javac_plugins,omitempty"`
	ExtraRuntimeClassPath []string                      `json:"extra_runtime_class_path,omitempty"`

	Scala *ScalaBundle `json:"scala,omitempty"`

	// Resolution is the main resolution graph, kept only on request.
	Resolution *dag.DAG `json:"-"`

	graph     *dag.DAG
	userRoots map[dependency.ModuleID]bool
}

// Artifacts returns the distinct main jars of the main resolution.
func (b *Bundle) Artifacts() []fetch.Entry {
	main, _ := fetch.Classify(b.DetailedArtifacts)
	return main
}

// SourceArtifacts returns the distinct source jars of the main resolution.
func (b *Bundle) SourceArtifacts() []fetch.Entry {
	_, sources := fetch.Classify(b.DetailedArtifacts)
	return sources
}

// ClassPath is the runtime classpath: main jars, extra classpath entries,
// then runner jars.
func (b *Bundle) ClassPath() []string {
	out := fetch.Paths(b.Artifacts())
	out = append(out, position.Values(b.ExtraClassPath)...)
	return append(out, b.ExtraRuntimeClassPath...)
}

// CompileClassPath is main jars, extra classpath entries, then compile-only
// jars including stubs.
func (b *Bundle) CompileClassPath() []string {
	out := fetch.Paths(b.Artifacts())
	out = append(out, position.Values(b.ExtraClassPath)...)
	return append(out, position.Values(b.ExtraCompileOnlyJars)...)
}

// SourcePath is source jars followed by extra source jars.
func (b *Bundle) SourcePath() []string {
	out := fetch.Paths(b.SourceArtifacts())
	return append(out, position.Values(b.ExtraSourceJars)...)
}

// UserClassPath returns the main jars of the user's dependencies and
// everything they pull in, leaving out jars only internal dependencies need.
func (b *Bundle) UserClassPath() []string {
	reachable := b.userReachable()
	var user []engine.DetailedArtifact
	for _, a := range b.DetailedArtifacts {
		if reachable == nil {
			if b.userRoots[a.Dependency.Module] {
				user = append(user, a)
			}
			continue
		}
		if reachable[a.Dependency.String()] {
			user = append(user, a)
		}
	}
	main, _ := fetch.Classify(user)
	return fetch.Paths(main)
}

// HasJVMRunner reports whether runner jars were fetched.
func (b *Bundle) HasJVMRunner() bool { return len(b.ExtraRuntimeClassPath) > 0 }

// JavacPluginPaths returns fetched javac plugin jars followed by the extra
// javac plugin paths.
func (b *Bundle) JavacPluginPaths() []string {
	out := make([]string, 0, len(b.JavacPlugins)+len(b.ExtraJavacPlugins))
	for _, p := range b.JavacPlugins {
		out = append(out, p.Path)
	}
	return append(out, position.Values(b.ExtraJavacPlugins)...)
}

// userReachable returns the graph node IDs reachable from user roots, or
// nil when no graph was reported.
func (b *Bundle) userReachable() map[string]bool {
	if b.graph == nil {
		return nil
	}
	seen := make(map[string]bool)
	var queue []string
	for _, n := range b.graph.Nodes() {
		if b.userRoots[moduleOf(n.ID)] {
			seen[n.ID] = true
			queue = append(queue, n.ID)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, c := range b.graph.Children(id) {
			if !seen[c] {
				seen[c] = true
				queue = append(queue, c)
			}
		}
	}
	return seen
}

// moduleOf parses the module of a graph node ID "org:name:version".
func moduleOf(id string) dependency.ModuleID {
	org, rest, _ := strings.Cut(id, ":")
	name, _, _ := strings.Cut(rest, ":")
	return dependency.ModuleID{Org: org, Name: name}
}
