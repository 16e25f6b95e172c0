// Package pkg provides the libraries behind stackfetch, a dependency fetcher
// for JVM and Scala builds.
//
// # Overview
//
// Given a build's declared dependencies, stackfetch resolves them against
// Maven repositories, downloads the artifacts and hands back ready-to-use
// class paths. Scala builds also get their toolchain: compiler jars,
// compiler plugins, Scala.js and Scala Native CLIs, test bridges and runner
// support jars.
//
// The data flow:
//
//	declared dependencies + build options
//	         ↓
//	    [artifacts] (build the dependency set, run two fetch phases)
//	         ↓
//	    [fetch] (one resolution, classify results, recover failures)
//	         ↓
//	    [engine] (resolve + download; [engine/maven] talks to repositories)
//	         ↓
//	    [artifacts.Bundle] (class paths, source paths, resolution graph)
//
// # Quick Start
//
//	e := maven.New(maven.Options{Dir: dir})
//	r := artifacts.NewRunner(e, log.Default())
//
//	params, err := artifacts.Request{
//	    Dependencies: []string{"org.typelevel::cats-core:2.10.0"},
//	    Scala:        "3.3.1",
//	}.Params(nil, artifacts.DefaultVersions())
//	if err != nil {
//	    return err
//	}
//	b, err := r.Run(ctx, params)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(strings.Join(b.ClassPath(), ":"))
//
// # Packages
//
// ## Model
//
// [dependency] parses "org:name:version" coordinates, including the "::"
// Scala cross-version form, and turns them into concrete modules for a
// [scala] configuration. [repository] parses repository specs and carries
// the URL fallback table. [forcing] pins versions across a resolution.
// [position] and [errors] attach source positions and codes to failures so
// callers can report every problem at once.
//
// ## Fetching
//
// [engine] is the resolver contract. [engine/maven] implements it over HTTP
// with POM parsing, parent inheritance and dependency management.
// [engine/enginetest] is a scripted fake. [fetch] runs one resolution and
// classifies its artifacts. [artifacts] orchestrates the full two-phase run.
//
// ## Infrastructure
//
// [cache] stores HTTP metadata (file, memory, Redis, MongoDB). [httputil]
// wraps HTTP with retries and caching. [config] loads TOML settings and
// environment overrides. [observability] exposes hooks for fetches, caches
// and HTTP calls. [buildinfo] carries version information.
//
// ## Output
//
// [render/nodelink] draws the resolution graph as DOT, SVG or PNG. [io]
// writes it as JSON. [dag] is the graph both operate on.
//
// [artifacts]: https://pkg.go.dev/github.com/matzehuels/stackfetch/pkg/artifacts
// [fetch]: https://pkg.go.dev/github.com/matzehuels/stackfetch/pkg/fetch
// [engine]: https://pkg.go.dev/github.com/matzehuels/stackfetch/pkg/engine
// [engine/maven]: https://pkg.go.dev/github.com/matzehuels/stackfetch/pkg/engine/maven
// [engine/enginetest]: https://pkg.go.dev/github.com/matzehuels/stackfetch/pkg/engine/enginetest
// [dependency]: https://pkg.go.dev/github.com/matzehuels/stackfetch/pkg/dependency
// [scala]: https://pkg.go.dev/github.com/matzehuels/stackfetch/pkg/scala
// [repository]: https://pkg.go.dev/github.com/matzehuels/stackfetch/pkg/repository
// [forcing]: https://pkg.go.dev/github.com/matzehuels/stackfetch/pkg/forcing
// [position]: https://pkg.go.dev/github.com/matzehuels/stackfetch/pkg/position
// [errors]: https://pkg.go.dev/github.com/matzehuels/stackfetch/pkg/errors
// [cache]: https://pkg.go.dev/github.com/matzehuels/stackfetch/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/stackfetch/pkg/httputil
// [config]: https://pkg.go.dev/github.com/matzehuels/stackfetch/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/stackfetch/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/stackfetch/pkg/buildinfo
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/stackfetch/pkg/render/nodelink
// [io]: https://pkg.go.dev/github.com/matzehuels/stackfetch/pkg/io
// [dag]: https://pkg.go.dev/github.com/matzehuels/stackfetch/pkg/dag
//
// [artifacts.Bundle]: https://pkg.go.dev/github.com/matzehuels/stackfetch/pkg/artifacts#Bundle
package pkg
