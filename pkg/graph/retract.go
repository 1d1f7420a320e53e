package graph

// Retract removes a node from the graph along with every edge touching it,
// and scrubs both ids out of every chunk's provenance lists so no chunk
// refers to an element that no longer exists. Chunks themselves are never
// deleted; only their provenance lists shrink.
//
// Retracting an absent node id is a no-op, which makes retraction
// idempotent. Like Ingest, Retract never mutates its inputs.
func Retract(g Graph, nodeID string, chunks []Chunk) (Graph, []Chunk) {
	out := Graph{}
	removedEdges := make(map[string]bool)

	for _, n := range g.Nodes {
		if n.ID == nodeID {
			continue
		}
		out.Nodes = append(out.Nodes, n)
	}
	for _, e := range g.Edges {
		if e.Source == nodeID || e.Target == nodeID {
			removedEdges[e.ID] = true
			continue
		}
		out.Edges = append(out.Edges, e)
	}

	scrubbed := make([]Chunk, len(chunks))
	for i, c := range chunks {
		c.AffectedNodeIDs = without(c.AffectedNodeIDs, func(id string) bool {
			return id == nodeID
		})
		c.AffectedEdgeIDs = without(c.AffectedEdgeIDs, func(id string) bool {
			return removedEdges[id]
		})
		scrubbed[i] = c
	}

	return out, scrubbed
}

// without returns a fresh slice holding the ids for which drop is false.
func without(ids []string, drop func(string) bool) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if drop(id) {
			continue
		}
		out = append(out, id)
	}
	return out
}
