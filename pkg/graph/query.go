package graph

// Relationship pairs a neighboring node with the edge connecting it.
type Relationship struct {
	Node Node
	Edge Edge
}

// RootNodes returns the nodes that are never the target of any edge
// (in-degree zero), in node insertion order. The presentation layer uses the
// first root as its default focal node, so the order is part of the contract
// and must not be re-sorted.
func RootNodes(g Graph) []Node {
	targeted := make(map[string]bool, len(g.Edges))
	for _, e := range g.Edges {
		targeted[e.Target] = true
	}

	var roots []Node
	for _, n := range g.Nodes {
		if !targeted[n.ID] {
			roots = append(roots, n)
		}
	}
	return roots
}

// RelationshipsOf returns the incoming (parents) and outgoing (children)
// relationships of a node. Parents are edges where the node is the target,
// paired with the source node; children are edges where the node is the
// source, paired with the target node. Edges whose far endpoint is missing
// are skipped, though a consistent graph never contains any.
func RelationshipsOf(g Graph, nodeID string) (parents, children []Relationship) {
	for _, e := range g.Edges {
		switch {
		case e.Target == nodeID:
			if n := g.Node(e.Source); n != nil {
				parents = append(parents, Relationship{Node: *n, Edge: e})
			}
		case e.Source == nodeID:
			if n := g.Node(e.Target); n != nil {
				children = append(children, Relationship{Node: *n, Edge: e})
			}
		}
	}
	return parents, children
}
