// Package forcing computes the forced versions applied on top of the
// resolution engine's conflict resolution.
//
// The Scala standard modules must match the compiler exactly, so every fetch
// that knows its Scala version pins them. Callers may append more pins for a
// specific fetch, for example to align the Scala.js linker with the linker
// CLI. Pins are ordered: the engine applies them in sequence and a later pin
// wins for its module.
package forcing

import (
	"strings"

	"github.com/matzehuels/stackfetch/pkg/dependency"
	"github.com/matzehuels/stackfetch/pkg/scala"
)

// ScalaOrg is the organization of the Scala compiler and standard library.
const ScalaOrg = "org.scala-lang"

var (
	scala2Modules = []string{"scala-library", "scala-compiler", "scala-reflect"}
	scala3Modules = []string{
		"scala3-library_3",
		"scala3-compiler_3",
		"scala3-interfaces_3",
		"scala3-tasty-inspector_3",
		"tasty-core_3",
	}
)

// ScalaPins returns the pins implied by the Scala version in params, or nil
// when params is nil.
//
// Versions starting with "2." pin scala-library, scala-compiler and
// scala-reflect. Anything else pins the Scala 3 module family. In that branch
// scala-library itself is left unpinned even though Scala 3 depends on it.
// TODO: decide whether Scala 3 fetches should pin scala-library to the
// version scala3-library_3 itself depends on.
func ScalaPins(params *scala.Params) []dependency.Pin {
	if params == nil {
		return nil
	}
	modules := scala3Modules
	if strings.HasPrefix(params.Version, "2.") {
		modules = scala2Modules
	}
	pins := make([]dependency.Pin, len(modules))
	for i, name := range modules {
		pins[i] = dependency.Pin{
			Module:  dependency.ModuleID{Org: ScalaOrg, Name: name},
			Version: params.Version,
		}
	}
	return pins
}

// Versions returns the Scala pins for params followed by extra. Because the
// engine applies pins in order, extra pins take precedence for their module.
func Versions(params *scala.Params, extra ...dependency.Pin) []dependency.Pin {
	pins := ScalaPins(params)
	return append(pins, extra...)
}
