package dag_test

import (
	"fmt"

	"github.com/matzehuels/stackfetch/pkg/dag"
)

func ExampleDAG_basic() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "app", Depth: 0})
	_ = g.AddNode(dag.Node{ID: "lib", Depth: 1})
	_ = g.AddNode(dag.Node{ID: "core", Depth: 2})
	_ = g.AddEdge(dag.Edge{From: "app", To: "lib"})
	_ = g.AddEdge(dag.Edge{From: "lib", To: "core"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	// Output:
	// Nodes: 3
	// Edges: 2
}

func ExampleDAG_traversal() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "app"})
	_ = g.AddNode(dag.Node{ID: "auth", Depth: 1})
	_ = g.AddNode(dag.Node{ID: "cache", Depth: 1})
	_ = g.AddEdge(dag.Edge{From: "app", To: "auth"})
	_ = g.AddEdge(dag.Edge{From: "app", To: "cache"})

	fmt.Println("Children of app:", g.Children("app"))
	fmt.Println("Parents of auth:", g.Parents("auth"))
	// Output:
	// Children of app: [auth cache]
	// Parents of auth: [app]
}

func ExampleDAG_TopologicalOrder() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "core", Depth: 2})
	_ = g.AddNode(dag.Node{ID: "app"})
	_ = g.AddNode(dag.Node{ID: "lib", Depth: 1})
	_ = g.AddEdge(dag.Edge{From: "app", To: "lib"})
	_ = g.AddEdge(dag.Edge{From: "lib", To: "core"})

	order, _ := g.TopologicalOrder()
	fmt.Println(order)
	// Output:
	// [app lib core]
}
