// Package dag holds the resolved dependency graph of a fetch.
//
// Nodes are resolved modules identified by "org:name:version"; an edge
// From → To means From depends on To. [Node.Depth] is the breadth-first
// distance from the nearest requested root, which is also what nearest-wins
// version selection uses to pick a version.
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "com.example:app:1.0", Depth: 0})
//	g.AddNode(dag.Node{ID: "org.slf4j:slf4j-api:2.0.9", Depth: 1})
//	g.AddEdge(dag.Edge{From: "com.example:app:1.0", To: "org.slf4j:slf4j-api:2.0.9"})
//
// Resolution graphs may contain cycles when published POMs depend on each
// other; [DAG.Validate] reports them and [DAG.TopologicalOrder] refuses them.
//
// DAG instances are not safe for concurrent use.
package dag
