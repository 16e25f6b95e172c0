// Package engine defines the contract between the fetch layer and a
// dependency resolution engine.
//
// An [Engine] takes concrete dependencies, an ordered repository list and
// forced versions, resolves the transitive graph, downloads the requested
// artifacts and reports one [DetailedArtifact] per publication. The fetch
// layer never looks inside: it only builds [Request] values and filters the
// [Result].
//
// The Maven implementation lives in [github.com/matzehuels/stackfetch/pkg/engine/maven];
// [github.com/matzehuels/stackfetch/pkg/engine/enginetest] provides a scripted
// fake for tests.
package engine

import (
	"context"

	"github.com/matzehuels/stackfetch/pkg/dag"
	"github.com/matzehuels/stackfetch/pkg/dependency"
	"github.com/matzehuels/stackfetch/pkg/repository"
)

// Engine resolves and downloads dependencies. Implementations must be safe
// for concurrent use: independent fetches share one engine.
type Engine interface {
	Resolve(ctx context.Context, req Request) (*Result, error)
}

// Request is one resolution.
type Request struct {
	Dependencies []dependency.Resolved
	Repositories []repository.Repository // Consulted in order
	Force        []dependency.Pin        // Later pins win for the same module

	// Classifiers lists the classified artifacts to download in addition to
	// the main ones, e.g. "sources".
	Classifiers []string

	// MainArtifacts requests the unclassified jar of every module.
	MainArtifacts bool

	// DefaultArtifacts leaves artifact selection to the engine. When set,
	// Classifiers and MainArtifacts are ignored and every module's main jar
	// is downloaded.
	DefaultArtifacts bool
}

// Publication describes one file a module publishes.
type Publication struct {
	Name       string `json:"name"`
	Type       string `json:"type"` // "jar", "src", "bundle", ...
	Ext        string `json:"ext"`
	Classifier string `json:"classifier,omitempty"`
}

// Artifact is where a publication is downloaded from.
type Artifact struct {
	URL      string `json:"url"`
	Changing bool   `json:"changing,omitempty"`
}

// DetailedArtifact is one requested publication of one resolved module.
type DetailedArtifact struct {
	Dependency  dependency.Resolved `json:"dependency"`
	Publication Publication         `json:"publication"`
	Artifact    Artifact            `json:"artifact"`

	// Path is the local file. Empty means the publication does not exist
	// (typically a missing sources jar) and nothing was downloaded.
	Path string `json:"path,omitempty"`
}

// Result is the outcome of a resolution.
type Result struct {
	Artifacts []DetailedArtifact
	Graph     *dag.DAG // Resolved module graph, nil if the engine does not report one
}

// MainRequested reports whether req asks for unclassified artifacts.
func (r Request) MainRequested() bool { return r.DefaultArtifacts || r.MainArtifacts }

// ClassifiersRequested returns the classifiers req asks for, nil when
// artifact selection is left to the engine.
func (r Request) ClassifiersRequested() []string {
	if r.DefaultArtifacts {
		return nil
	}
	return r.Classifiers
}
