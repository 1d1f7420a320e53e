// Package graph implements the incremental knowledge-graph builder:
// value-semantics graph/chunk types, deterministic id derivation, and the
// pure transition functions that grow or shrink a graph snapshot.
package graph

import (
	"errors"
	"strings"
	"time"
)

// Node represents a knowledge graph entity created from a chunk mention.
type Node struct {
	ID            string `json:"id"`                      // Deterministic id derived from Label (see NodeID)
	Label         string `json:"label"`                   // Entity name as it appears in the dictionary
	Type          string `json:"type"`                    // Entity type (Planet, Star, Concept, etc.)
	SourceChunkID string `json:"sourceChunkId,omitempty"` // Chunk that first created this node; never updated
}

// Edge represents a directed relationship between two nodes.
// Source and Target are always plain node ids, never embedded nodes.
type Edge struct {
	ID            string `json:"id"`                      // Deterministic id derived from (Source, Target) (see EdgeID)
	Source        string `json:"source"`                  // Source node id
	Target        string `json:"target"`                  // Target node id
	Label         string `json:"label"`                   // Relation name (orbits, consists of, etc.)
	SourceChunkID string `json:"sourceChunkId,omitempty"` // Chunk that created this edge
}

// Chunk is one unit of input text plus its provenance: the ids of the nodes
// and edges that processing this chunk newly created. Mentions of entities
// that already existed are not recorded here.
type Chunk struct {
	ID              string    `json:"id"`
	Text            string    `json:"text"`
	Timestamp       time.Time `json:"timestamp"`
	AffectedNodeIDs []string  `json:"affectedNodeIds"`
	AffectedEdgeIDs []string  `json:"affectedEdgeIds"`
}

// Graph is the accumulated node/edge state of a session. Both slices keep
// insertion order; consumers rely on it (RootNodes has no other tie-break).
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// ErrInvalidChunk indicates a chunk that cannot be ingested (missing id).
var ErrInvalidChunk = errors.New("invalid chunk: missing id")

// NodeID derives the deterministic node id for an entity label:
// case-fold, collapse runs of whitespace, join the words with "-".
// Two labels that differ only in case or spacing map to the same id.
func NodeID(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), "-")
}

// EdgeID derives the deterministic edge id for an ordered endpoint pair.
func EdgeID(source, target string) string {
	return source + "-" + target
}

// Node returns the node with the given id, or nil if absent.
func (g Graph) Node(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// Edge returns the edge with the given id, or nil if absent.
func (g Graph) Edge(id string) *Edge {
	for i := range g.Edges {
		if g.Edges[i].ID == id {
			return &g.Edges[i]
		}
	}
	return nil
}

// clone returns a copy of g whose slices are safe to append to without
// aliasing the originals. Transition functions never mutate their input.
func (g Graph) clone() Graph {
	out := Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	copy(out.Nodes, g.Nodes)
	copy(out.Edges, g.Edges)
	return out
}
