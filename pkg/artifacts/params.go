package artifacts

import (
	"github.com/matzehuels/stackfetch/pkg/dependency"
	"github.com/matzehuels/stackfetch/pkg/fetch"
	"github.com/matzehuels/stackfetch/pkg/position"
	"github.com/matzehuels/stackfetch/pkg/repository"
	"github.com/matzehuels/stackfetch/pkg/scala"
)

// ScalaParams requests a Scala toolchain. Empty version strings mean the
// corresponding component is not requested.
type ScalaParams struct {
	Params          scala.Params
	CompilerPlugins []position.Positioned[dependency.Dependency]

	JSTestBridge        string // scalajs-test-bridge version
	NativeTestInterface string // Scala Native test-interface version
	JSVersion           string // Scala.js linker version the JS CLI is pinned to
	JSCLIVersion        string
	NativeCLIVersion    string
	ScalaPyVersion      string
}

// Params is one orchestration request.
type Params struct {
	Scala *ScalaParams // Nil for Java-only builds

	Dependencies []position.Positioned[dependency.Dependency]
	JavacPlugins []position.Positioned[dependency.Dependency]

	ExtraJavacPlugins    []position.Positioned[string]
	ExtraClassPath       []position.Positioned[string]
	ExtraCompileOnlyJars []position.Positioned[string]
	ExtraSourceJars      []position.Positioned[string]

	FetchSources     bool
	AddStubs         bool
	AddJVMRunner     bool
	AddJVMTestRunner bool
	JMHVersion       string // Non-empty adds the JMH bytecode generator

	Repositories   []repository.Repository // Nil uses repository.Default()
	KeepResolution bool
	Versions       Versions // Zero fields use DefaultVersions
	Recover        fetch.Recover
}

func (p Params) scalaParams() *scala.Params {
	if p.Scala == nil {
		return nil
	}
	sp := p.Scala.Params
	return &sp
}
