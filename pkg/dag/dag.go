package dag

import (
	"cmp"
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrGraphHasCycle is returned by [DAG.Validate] when a cycle is detected.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Metadata stores arbitrary key-value pairs attached to nodes or the graph,
// such as the repository a module was resolved from. Metadata maps are never
// nil once added to a DAG.
type Metadata map[string]any

// Node is a resolved module.
type Node struct {
	ID    string   // "org:name:version"
	Depth int      // Distance from the nearest root (0 = requested directly)
	Meta  Metadata // Arbitrary key-value metadata (never nil after AddNode)
}

// Edge is a dependency from one node to another.
type Edge struct {
	From string   // Dependent node ID
	To   string   // Dependency node ID
	Meta Metadata // Arbitrary key-value metadata (never nil after AddEdge)
}

// DAG is a dependency graph.
//
// The zero value is not usable - use New to create a valid DAG instance.
type DAG struct {
	nodes    map[string]*Node
	order    []string // insertion order
	edges    []Edge
	outgoing map[string][]string
	incoming map[string][]string
	meta     Metadata
}

// New creates an empty DAG with optional graph-level metadata.
func New(meta Metadata) *DAG {
	if meta == nil {
		meta = Metadata{}
	}
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map.
func (d *DAG) Meta() Metadata { return d.meta }

// AddNode adds a node to the graph.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	d.nodes[n.ID] = &n
	d.order = append(d.order, n.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes. Adding the same
// edge twice is a no-op.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if slices.Contains(d.outgoing[e.From], e.To) {
		return nil
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// Nodes returns all nodes ordered by depth, then insertion order. The
// returned pointers refer to the graph's nodes.
func (d *DAG) Nodes() []*Node {
	nodes := make([]*Node, 0, len(d.order))
	for _, id := range d.order {
		nodes = append(nodes, d.nodes[id])
	}
	slices.SortStableFunc(nodes, func(a, b *Node) int { return cmp.Compare(a.Depth, b.Depth) })
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the IDs of the node's dependencies. The returned slice
// should not be modified.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Parents returns the IDs of the nodes depending on id. The returned slice
// should not be modified.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

// Node returns the node with the given ID and true, or nil and false if not found.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Roots returns nodes nothing depends on, in insertion order.
func (d *DAG) Roots() []*Node {
	var roots []*Node
	for _, id := range d.order {
		if len(d.incoming[id]) == 0 {
			roots = append(roots, d.nodes[id])
		}
	}
	return roots
}

// Leaves returns nodes without dependencies, in insertion order.
func (d *DAG) Leaves() []*Node {
	var leaves []*Node
	for _, id := range d.order {
		if len(d.outgoing[id]) == 0 {
			leaves = append(leaves, d.nodes[id])
		}
	}
	return leaves
}

// Validate returns ErrGraphHasCycle if the graph contains a cycle.
func (d *DAG) Validate() error {
	_, err := d.TopologicalOrder()
	return err
}

// TopologicalOrder returns node IDs such that every node precedes its
// dependencies. Ties keep insertion order.
func (d *DAG) TopologicalOrder() ([]string, error) {
	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(d.nodes))
	post := make([]string, 0, len(d.nodes))

	var visit func(id string) error
	visit = func(id string) error {
		color[id] = gray
		children := d.outgoing[id]
		for i := len(children) - 1; i >= 0; i-- {
			switch color[children[i]] {
			case gray:
				return ErrGraphHasCycle
			case white:
				if err := visit(children[i]); err != nil {
					return err
				}
			}
		}
		color[id] = black
		post = append(post, id)
		return nil
	}

	for i := len(d.order) - 1; i >= 0; i-- {
		if color[d.order[i]] == white {
			if err := visit(d.order[i]); err != nil {
				return nil, err
			}
		}
	}
	slices.Reverse(post)
	return post, nil
}
