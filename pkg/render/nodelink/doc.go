// Package nodelink renders resolution graphs as node-link diagrams.
//
// Convert a graph to DOT, then render it in-process with Graphviz:
//
//	dot := nodelink.ToDOT(res.Graph, nodelink.Options{Detailed: true})
//	svg, err := nodelink.Render(ctx, dot, nodelink.FormatSVG)
//
// Directly requested modules are drawn filled; with Detailed set, node labels
// also list metadata such as the repository each module came from.
//
// This package uses [github.com/goccy/go-graphviz], which runs Graphviz as
// WebAssembly and needs no system installation.
package nodelink
