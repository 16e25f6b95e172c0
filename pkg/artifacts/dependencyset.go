package artifacts

import (
	"slices"

	"github.com/matzehuels/stackfetch/pkg/dependency"
	"github.com/matzehuels/stackfetch/pkg/forcing"
	"github.com/matzehuels/stackfetch/pkg/position"
	"github.com/matzehuels/stackfetch/pkg/scala"
)

const (
	scalaCLIOrg   = "org.virtuslab.scala-cli"
	scalaJSOrg    = "org.scala-js"
	scalaNatOrg   = "org.scala-native"
	scalaPyOrg    = "dev.scalapy"
	jmhOrg        = "org.openjdk.jmh"
	jmhGenerator  = "jmh-generator-bytecode"
	defaultBinary = "2.13"
)

// DependencySet is the main dependency request, split by provenance.
// Internal entries never carry positions.
type DependencySet struct {
	User     []position.Positioned[dependency.Dependency]
	Extra    []position.Positioned[dependency.Dependency] // toolchain interop libraries
	Internal []position.Positioned[dependency.Dependency] // test bridges, test runner, JMH
}

// All returns user, extra and internal dependencies in that order. The list
// is not deduplicated; the engine merges duplicates during resolution.
func (s DependencySet) All() []position.Positioned[dependency.Dependency] {
	out := make([]position.Positioned[dependency.Dependency], 0, len(s.User)+len(s.Extra)+len(s.Internal))
	out = append(out, s.User...)
	out = append(out, s.Extra...)
	return append(out, s.Internal...)
}

// InternalCount is the number of dependencies the builder added.
func (s DependencySet) InternalCount() int { return len(s.Extra) + len(s.Internal) }

// Progress returns the progress label for fetching s.
func (s DependencySet) Progress() string {
	return ProgressMessage(len(s.User), s.InternalCount())
}

// BuildDependencySet merges the user's dependencies with those implied by
// params and the toolchain bundle sb (nil for Java-only builds). It is a
// pure function: calling it twice yields equal sets.
func BuildDependencySet(params Params, sb *ScalaBundle) DependencySet {
	set := DependencySet{User: slices.Clone(params.Dependencies)}
	if sb != nil {
		set.Extra = slices.Clone(sb.ExtraDependencies)
		set.Internal = slices.Clone(sb.InternalDependencies)
	}

	versions := params.Versions.withDefaults()
	sp := params.scalaParams()
	if params.AddJVMTestRunner {
		set.Internal = append(set.Internal, position.None(toolDependency(sp, scalaCLIOrg, "test-runner", versions.TestRunner)))
	}
	if params.JMHVersion != "" {
		set.Internal = append(set.Internal, position.None(dependency.New(jmhOrg, jmhGenerator, params.JMHVersion)))
	}
	return set
}

// toolDependency builds a dependency on a Scala-published tool. Without a
// Scala toolchain the 2.13 build of the tool is used.
func toolDependency(sp *scala.Params, org, name, version string) dependency.Dependency {
	if sp == nil {
		return dependency.New(org, name+"_"+defaultBinary, version)
	}
	return dependency.Scala(org, name, version)
}

// CompilerDependencies returns the compiler modules of a toolchain.
func CompilerDependencies(sp scala.Params) []dependency.Dependency {
	if sp.IsScala2() {
		return []dependency.Dependency{
			dependency.New(forcing.ScalaOrg, "scala-compiler", sp.Version),
			dependency.New(forcing.ScalaOrg, "scala-library", sp.Version),
		}
	}
	return []dependency.Dependency{
		dependency.New(forcing.ScalaOrg, "scala3-compiler_3", sp.Version),
	}
}

// scalaInternal returns the test-support dependencies a toolchain adds.
// Scala 3 builds use the 2.13 build of the Scala.js test bridge, which is
// the only one published.
func scalaInternal(sp *ScalaParams) []position.Positioned[dependency.Dependency] {
	var out []position.Positioned[dependency.Dependency]
	if sp.JSTestBridge != "" {
		d := dependency.Scala(scalaJSOrg, "scalajs-test-bridge", sp.JSTestBridge)
		if !sp.Params.IsScala2() {
			d = dependency.New(scalaJSOrg, "scalajs-test-bridge_"+defaultBinary, sp.JSTestBridge)
		}
		out = append(out, position.None(d))
	}
	if sp.NativeTestInterface != "" {
		out = append(out, position.None(dependency.ScalaPlatform(scalaNatOrg, "test-interface", sp.NativeTestInterface)))
	}
	return out
}

// scalaExtra returns interop libraries a toolchain adds to the main set.
func scalaExtra(sp *ScalaParams) []position.Positioned[dependency.Dependency] {
	if sp.ScalaPyVersion == "" {
		return nil
	}
	return []position.Positioned[dependency.Dependency]{
		position.None(dependency.Scala(scalaPyOrg, "scalapy-core", sp.ScalaPyVersion)),
	}
}

// versionsOf lists the versions of deps, for snapshot repository gating.
func versionsOf(deps []position.Positioned[dependency.Dependency]) []string {
	out := make([]string, len(deps))
	for i, d := range deps {
		out[i] = d.Value.Version
	}
	return out
}
