package graph

import (
	"encoding/json"
	"fmt"
	"io"
)

// ExportDocument is the JSON shape of an exported session:
// {"graphData": {"nodes": [...], "edges": [...]}, "chunks": [...]}.
// There is no import path; the export is a one-way snapshot.
type ExportDocument struct {
	GraphData Graph   `json:"graphData"`
	Chunks    []Chunk `json:"chunks"`
}

// Export serializes the graph and chunk history as a single indented JSON
// document. Empty collections encode as [] rather than null so consumers
// never have to null-check list fields.
func Export(w io.Writer, g Graph, chunks []Chunk) error {
	// clone always yields non-nil node/edge slices, so graphData encodes
	// as {"nodes": [], "edges": []} even for an empty session.
	doc := ExportDocument{GraphData: g.clone(), Chunks: make([]Chunk, len(chunks))}
	copy(doc.Chunks, chunks)

	for i := range doc.Chunks {
		if doc.Chunks[i].AffectedNodeIDs == nil {
			doc.Chunks[i].AffectedNodeIDs = []string{}
		}
		if doc.Chunks[i].AffectedEdgeIDs == nil {
			doc.Chunks[i].AffectedEdgeIDs = []string{}
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode export document: %w", err)
	}
	return nil
}
