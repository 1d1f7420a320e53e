// Package docgraph provides an incremental document-to-knowledge-graph
// session: an ordered stream of text chunks is folded into a graph with full
// provenance, with support for node retraction and JSON export.
package docgraph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/dan-solli/docgraph/pkg/chunker"
	"github.com/dan-solli/docgraph/pkg/dictionary"
	"github.com/dan-solli/docgraph/pkg/graph"
	"github.com/dan-solli/docgraph/pkg/metrics"
	"github.com/dan-solli/docgraph/pkg/trace"
)

// Config holds configuration for a docgraph session
type Config struct {
	// Entities is the fixed entity dictionary. Nil selects the built-in
	// demo dictionary; the dictionary never changes after construction.
	Entities []dictionary.Entity

	// Triggers is the relation trigger table. Nil selects the defaults
	// (orbit, consists of); an empty slice disables relation inference.
	Triggers []dictionary.Trigger

	// Delay is the inter-chunk pause used by Process (default: 800ms)
	Delay time.Duration

	// Metrics receives operation metrics; nil disables collection
	Metrics metrics.Collector

	// Traces receives per-operation trace records; nil disables tracing
	Traces trace.Exporter
}

// Session owns one in-memory graph snapshot and its chunk history.
// A session is single-writer: callers must not invoke its methods
// concurrently. Each mutation is a complete, atomic transition from one
// consistent state to the next.
type Session struct {
	dict    *dictionary.Dictionary
	chunker *chunker.Chunker
	delay   time.Duration
	metrics metrics.Collector
	traces  trace.Exporter

	graph  graph.Graph
	chunks []graph.Chunk
}

// RetractResult reports what a retraction removed.
type RetractResult struct {
	NodesRemoved   int
	EdgesRemoved   int
	ChunksScrubbed int // chunks whose provenance lists shrank
}

// New creates a new session with an empty graph.
func New(cfg Config) (*Session, error) {
	if cfg.Entities == nil {
		cfg.Entities = dictionary.DefaultEntities
	}
	if cfg.Delay == 0 {
		cfg.Delay = 800 * time.Millisecond
	}

	dict := dictionary.New(cfg.Entities, cfg.Triggers)
	if dict.Len() == 0 {
		return nil, errors.New("dictionary has no entities")
	}

	return &Session{
		dict:    dict,
		chunker: &chunker.Chunker{},
		delay:   cfg.Delay,
		metrics: cfg.Metrics,
		traces:  cfg.Traces,
	}, nil
}

// Graph returns the current graph snapshot. Read-only: callers must not
// modify the returned slices; Ingest and Retract are the only mutators.
func (s *Session) Graph() graph.Graph {
	return s.graph
}

// Chunks returns the full chunk history in ingestion order. Read-only.
func (s *Session) Chunks() []graph.Chunk {
	return s.chunks
}

// Ingest processes one chunk and appends it to the history. On validation
// failure (ErrInvalidChunk) neither the graph nor the history changes.
// Returns the chunk enriched with provenance.
func (s *Session) Ingest(ctx context.Context, c graph.Chunk) (graph.Chunk, error) {
	start := time.Now()
	tr := newTrace()

	timer := newSpanTimer("transition", tr, true)
	next, enriched, err := graph.Ingest(s.graph, c, s.dict)
	timer.finish(err == nil, err, map[string]int64{
		"nodesCreated": int64(len(enriched.AffectedNodeIDs)),
		"edgesCreated": int64(len(enriched.AffectedEdgeIDs)),
	})

	ids := map[string]interface{}{"chunkId": c.ID}
	if err != nil {
		s.finish(ctx, "ingest", start, tr, err, ids)
		return enriched, fmt.Errorf("failed to ingest chunk: %w", err)
	}

	s.graph = next
	s.chunks = append(s.chunks, enriched)
	s.updateStorageCounts(ctx)
	s.finish(ctx, "ingest", start, tr, nil, ids)
	return enriched, nil
}

// Retract removes a node, cascades its incident edges, and scrubs both from
// every chunk's provenance. Retracting an unknown node id is a no-op.
func (s *Session) Retract(ctx context.Context, nodeID string) RetractResult {
	start := time.Now()
	tr := newTrace()

	timer := newSpanTimer("cascade", tr, true)
	next, scrubbed := graph.Retract(s.graph, nodeID, s.chunks)

	result := RetractResult{
		NodesRemoved: len(s.graph.Nodes) - len(next.Nodes),
		EdgesRemoved: len(s.graph.Edges) - len(next.Edges),
	}
	for i := range s.chunks {
		if len(scrubbed[i].AffectedNodeIDs) != len(s.chunks[i].AffectedNodeIDs) ||
			len(scrubbed[i].AffectedEdgeIDs) != len(s.chunks[i].AffectedEdgeIDs) {
			result.ChunksScrubbed++
		}
	}
	timer.finish(true, nil, map[string]int64{
		"nodesRemoved":   int64(result.NodesRemoved),
		"edgesRemoved":   int64(result.EdgesRemoved),
		"chunksScrubbed": int64(result.ChunksScrubbed),
	})

	s.graph = next
	s.chunks = scrubbed
	s.updateStorageCounts(ctx)
	s.finish(ctx, "retract", start, tr, nil, map[string]interface{}{"nodeId": nodeID})
	return result
}

// Process splits a document into line chunks and ingests them in document
// order, pausing the configured delay between chunks. Cancelling the context
// stops the stream between chunks; fully ingested chunks are retained.
// Returns the number of chunks ingested.
func (s *Session) Process(ctx context.Context, document string) (int, error) {
	start := time.Now()
	tr := newTrace()

	timer := newSpanTimer("chunk", tr, true)
	chunks := s.chunker.Chunk(document)
	timer.finish(true, nil, map[string]int64{"chunkCount": int64(len(chunks))})

	ingested := 0
	var err error
	for i, c := range chunks {
		if i > 0 {
			select {
			case <-ctx.Done():
				err = ctx.Err()
			case <-time.After(s.delay):
			}
			if err != nil {
				break
			}
		}
		if _, err = s.Ingest(ctx, c); err != nil {
			break
		}
		ingested++
	}

	s.finish(ctx, "process", start, tr, err, map[string]interface{}{"chunksIngested": ingested})
	if err != nil {
		return ingested, fmt.Errorf("processing stopped after %d of %d chunks: %w", ingested, len(chunks), err)
	}
	return ingested, nil
}

// RootNodes returns the in-degree-zero nodes of the current snapshot, in
// insertion order.
func (s *Session) RootNodes() []graph.Node {
	return graph.RootNodes(s.graph)
}

// RelationshipsOf returns the incoming and outgoing relationships of a node
// in the current snapshot.
func (s *Session) RelationshipsOf(nodeID string) (parents, children []graph.Relationship) {
	return graph.RelationshipsOf(s.graph, nodeID)
}

// Export writes the session as a single JSON document shaped
// {"graphData": {"nodes": [...], "edges": [...]}, "chunks": [...]}.
func (s *Session) Export(ctx context.Context, w io.Writer) error {
	start := time.Now()
	tr := newTrace()

	timer := newSpanTimer("encode", tr, true)
	err := graph.Export(w, s.graph, s.chunks)
	timer.finish(err == nil, err, map[string]int64{
		"nodes":  int64(len(s.graph.Nodes)),
		"edges":  int64(len(s.graph.Edges)),
		"chunks": int64(len(s.chunks)),
	})

	s.finish(ctx, "export", start, tr, err, nil)
	if err != nil {
		return fmt.Errorf("failed to export session: %w", err)
	}
	return nil
}

// Close flushes the trace exporter, if any.
func (s *Session) Close() error {
	if s.traces != nil {
		return s.traces.Close()
	}
	return nil
}

// finish records metrics and a trace record for a completed operation.
func (s *Session) finish(ctx context.Context, operation string, start time.Time, tr *OperationTrace, err error, ids map[string]interface{}) {
	durationMs := time.Since(start).Milliseconds()
	status := "success"
	if err != nil {
		status = "error"
	}

	if s.metrics != nil {
		s.metrics.RecordOperation(ctx, operation, status, durationMs)
		for _, span := range tr.Spans {
			s.metrics.RecordStage(ctx, operation, span.Name, span.DurationMs)
		}
		if err != nil {
			s.metrics.RecordError(ctx, operation, ClassifyError(err))
		}
	}

	if s.traces != nil {
		record := &trace.TraceRecord{
			Timestamp:   start,
			OperationID: uuid.New().String(),
			Operation:   operation,
			DurationMs:  durationMs,
			Status:      status,
			Spans:       tr.SpanRecords(),
			IDs:         ids,
		}
		if err != nil {
			record.ErrorType = ClassifyError(err)
		}
		// Trace export failures are not surfaced; tracing is best-effort.
		_ = s.traces.Export(ctx, record)
	}
}

// updateStorageCounts refreshes the storage gauges after a mutation.
func (s *Session) updateStorageCounts(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	s.metrics.SetStorageCount(ctx, "nodes", int64(len(s.graph.Nodes)))
	s.metrics.SetStorageCount(ctx, "edges", int64(len(s.graph.Edges)))
	s.metrics.SetStorageCount(ctx, "chunks", int64(len(s.chunks)))
}
