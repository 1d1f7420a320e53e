package graph

import (
	"strings"

	"github.com/dan-solli/docgraph/pkg/dictionary"
)

// Ingest processes one chunk against the current graph snapshot and returns
// the next snapshot plus the chunk enriched with provenance. The input graph
// is never mutated; ingestion is a pure function of (graph, chunk, dict).
//
// Rules:
//   - Entities are collected in dictionary order, case-insensitively.
//   - A mentioned entity with no node yet gets one, with SourceChunkID set to
//     this chunk; re-mentions never create duplicates or touch provenance.
//   - If a trigger keyword matches and at least two entities are mentioned,
//     exactly one edge is derived between the first two mentioned entities.
//     An edge id already present in the graph is not re-created.
//
// A chunk with empty or whitespace-only text is legal and yields empty
// provenance lists. A chunk without an id is rejected with ErrInvalidChunk
// and the graph is returned unchanged.
func Ingest(g Graph, c Chunk, dict *dictionary.Dictionary) (Graph, Chunk, error) {
	if strings.TrimSpace(c.ID) == "" {
		return g, c, ErrInvalidChunk
	}

	out := g.clone()
	c.AffectedNodeIDs = []string{}
	c.AffectedEdgeIDs = []string{}

	// Mentioned node ids in dictionary order, deduplicated by derived id so
	// dictionary entries that normalize to the same id count once.
	var mentioned []string
	seen := make(map[string]bool)
	for _, entity := range dict.Match(c.Text) {
		id := NodeID(entity.Name)
		if seen[id] {
			continue
		}
		seen[id] = true
		mentioned = append(mentioned, id)

		if out.Node(id) == nil {
			out.Nodes = append(out.Nodes, Node{
				ID:            id,
				Label:         entity.Name,
				Type:          entity.Type,
				SourceChunkID: c.ID,
			})
			c.AffectedNodeIDs = append(c.AffectedNodeIDs, id)
		}
	}

	if trigger, ok := dict.MatchTrigger(c.Text); ok && len(mentioned) >= 2 {
		id := EdgeID(mentioned[0], mentioned[1])
		if out.Edge(id) == nil {
			out.Edges = append(out.Edges, Edge{
				ID:            id,
				Source:        mentioned[0],
				Target:        mentioned[1],
				Label:         trigger.Relation,
				SourceChunkID: c.ID,
			})
			c.AffectedEdgeIDs = append(c.AffectedEdgeIDs, id)
		}
	}

	return out, c, nil
}
