package artifacts

import (
	"fmt"
	"strings"

	"github.com/matzehuels/stackfetch/pkg/dependency"
	"github.com/matzehuels/stackfetch/pkg/errors"
	"github.com/matzehuels/stackfetch/pkg/fetch"
	"github.com/matzehuels/stackfetch/pkg/position"
	"github.com/matzehuels/stackfetch/pkg/repository"
	"github.com/matzehuels/stackfetch/pkg/scala"
)

// Request is a fetch request in textual form, as accepted by the command
// line and the HTTP API. Each parsed value is positioned at its field and
// index, e.g. "dependencies[2]".
type Request struct {
	Dependencies    []string `json:"dependencies"`
	Repositories    []string `json:"repositories,omitempty"`
	Scala           string   `json:"scala,omitempty"`
	Platform        string   `json:"platform,omitempty"` // jvm, js or native
	PlatformVersion string   `json:"platform_version,omitempty"`
	CompilerPlugins []string `json:"compiler_plugins,omitempty"`
	JavacPlugins    []string `json:"javac_plugins,omitempty"`

	ClassPath   []string `json:"class_path,omitempty"`
	CompileOnly []string `json:"compile_only,omitempty"`
	SourceJars  []string `json:"source_jars,omitempty"`

	Sources    bool   `json:"sources,omitempty"`
	Stubs      bool   `json:"stubs,omitempty"`
	Runner     bool   `json:"runner,omitempty"`
	TestRunner bool   `json:"test_runner,omitempty"`
	JMH        string `json:"jmh,omitempty"`
	ToolCLI    bool   `json:"tool_cli,omitempty"` // Scala.js or Scala Native CLI for the platform
	ScalaPy    string `json:"scalapy,omitempty"`

	// Recover lists error codes whose failures leave the affected part of
	// the bundle empty instead of failing the request.
	Recover []string `json:"recover,omitempty"`

	KeepResolution bool `json:"-"`
}

// Params parses r. Empty repositories fall back to repos; versions fills
// internal tool versions. Every malformed entry is reported in one
// composite error.
func (r Request) Params(repos []repository.Repository, versions Versions) (Params, error) {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	p := Params{
		FetchSources:     r.Sources,
		AddStubs:         r.Stubs,
		AddJVMRunner:     r.Runner,
		AddJVMTestRunner: r.TestRunner,
		JMHVersion:       strings.TrimSpace(r.JMH),
		Repositories:     repos,
		KeepResolution:   r.KeepResolution,
		Versions:         versions,
	}

	var err error
	p.Dependencies, err = parseDependencies("dependencies", r.Dependencies)
	collect(err)
	p.JavacPlugins, err = parseDependencies("javac_plugins", r.JavacPlugins)
	collect(err)
	p.ExtraClassPath = positionStrings("class_path", r.ClassPath)
	p.ExtraCompileOnlyJars = positionStrings("compile_only", r.CompileOnly)
	p.ExtraSourceJars = positionStrings("source_jars", r.SourceJars)

	if len(r.Repositories) > 0 {
		p.Repositories, err = repository.ParseAll(r.Repositories)
		collect(err)
	}

	if r.Scala != "" {
		sp, err := r.scalaParams(versions.withDefaults())
		collect(err)
		p.Scala = sp
	} else if len(r.CompilerPlugins) > 0 {
		collect(errors.New(errors.ErrCodeMissingScalaVersion, "compiler plugins require a Scala version"))
	}

	if len(r.Recover) > 0 {
		codes := make([]errors.Code, len(r.Recover))
		for i, c := range r.Recover {
			codes[i] = errors.Code(strings.ToUpper(strings.TrimSpace(c)))
		}
		p.Recover = fetch.RecoverCodes(codes...)
	}

	if err := errors.Combine(errs...); err != nil {
		return Params{}, err
	}
	return p, nil
}

func (r Request) scalaParams(versions Versions) (*ScalaParams, error) {
	kind, err := scala.ParsePlatformKind(r.Platform)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "platform")
	}
	if kind != scala.JVM && r.PlatformVersion == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "platform %s requires a platform version", kind)
	}
	if err := errors.ValidateVersion(r.Scala); err != nil {
		return nil, err
	}

	plugins, err := parseDependencies("compiler_plugins", r.CompilerPlugins)
	if err != nil {
		return nil, err
	}
	sp := &ScalaParams{
		Params:          *scala.NewParams(r.Scala, scala.Platform{Kind: kind, Version: r.PlatformVersion}),
		CompilerPlugins: plugins,
		ScalaPyVersion:  r.ScalaPy,
	}
	switch kind {
	case scala.JS:
		sp.JSVersion = r.PlatformVersion
		sp.JSTestBridge = r.PlatformVersion
		if r.ToolCLI {
			sp.JSCLIVersion = versions.JSCLI
		}
	case scala.Native:
		sp.NativeTestInterface = r.PlatformVersion
		if r.ToolCLI {
			sp.NativeCLIVersion = r.PlatformVersion
		}
	}
	return sp, nil
}

func parseDependencies(field string, ss []string) ([]position.Positioned[dependency.Dependency], error) {
	out := make([]position.Positioned[dependency.Dependency], 0, len(ss))
	var errs []error
	for i, s := range ss {
		pos := position.Position{File: fmt.Sprintf("%s[%d]", field, i)}
		d, err := dependency.Parse(s)
		if err != nil {
			if e, ok := err.(*errors.Error); ok {
				err = e.WithPositions(pos)
			}
			errs = append(errs, err)
			continue
		}
		out = append(out, position.New(d, pos))
	}
	if err := errors.Combine(errs...); err != nil {
		return nil, err
	}
	return out, nil
}

func positionStrings(field string, ss []string) []position.Positioned[string] {
	out := make([]position.Positioned[string], len(ss))
	for i, s := range ss {
		out[i] = position.New(s, position.Position{File: fmt.Sprintf("%s[%d]", field, i)})
	}
	return out
}
