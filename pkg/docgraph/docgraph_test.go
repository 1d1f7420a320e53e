package docgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/dan-solli/docgraph/pkg/dictionary"
	"github.com/dan-solli/docgraph/pkg/graph"
	"github.com/dan-solli/docgraph/pkg/metrics"
	"github.com/dan-solli/docgraph/pkg/trace"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := New(Config{Delay: time.Millisecond})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func testChunk(id, text string) graph.Chunk {
	return graph.Chunk{ID: id, Text: text, Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestNew_EmptyDictionaryRejected(t *testing.T) {
	_, err := New(Config{Entities: []dictionary.Entity{{Name: "   "}}})
	if err == nil {
		t.Fatal("expected error for dictionary without entities")
	}
}

func TestSession_EndToEndScenario(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	// Chunk 1 mentions only the Sun.
	c1, err := s.Ingest(ctx, testChunk("c1", "The Sun is a star."))
	if err != nil {
		t.Fatalf("Ingest c1 failed: %v", err)
	}

	g := s.Graph()
	if len(g.Nodes) != 1 || g.Nodes[0].ID != "sun" {
		t.Fatalf("after c1: nodes %+v, want [sun]", g.Nodes)
	}
	if len(g.Edges) != 0 {
		t.Fatalf("after c1: edges %+v, want none", g.Edges)
	}
	if !reflect.DeepEqual(c1.AffectedNodeIDs, []string{"sun"}) {
		t.Errorf("c1.AffectedNodeIDs: got %v, want [sun]", c1.AffectedNodeIDs)
	}

	// Chunk 2 re-mentions the Sun and introduces Earth and Mars with a
	// trigger keyword.
	c2, err := s.Ingest(ctx, testChunk("c2", "Eight planets orbit the Sun, including Earth and Mars."))
	if err != nil {
		t.Fatalf("Ingest c2 failed: %v", err)
	}

	g = s.Graph()
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	if !reflect.DeepEqual(ids, []string{"sun", "earth", "mars"}) {
		t.Errorf("nodes: got %v, want [sun earth mars]", ids)
	}
	if len(g.Edges) != 1 || g.Edges[0].ID != "sun-earth" || g.Edges[0].Label != "orbits" {
		t.Errorf("edges: got %+v, want one sun-earth orbits", g.Edges)
	}
	if !reflect.DeepEqual(c2.AffectedNodeIDs, []string{"earth", "mars"}) {
		t.Errorf("c2.AffectedNodeIDs: got %v, want [earth mars]", c2.AffectedNodeIDs)
	}
	if !reflect.DeepEqual(c2.AffectedEdgeIDs, []string{"sun-earth"}) {
		t.Errorf("c2.AffectedEdgeIDs: got %v, want [sun-earth]", c2.AffectedEdgeIDs)
	}

	if len(s.Chunks()) != 2 {
		t.Errorf("chunk history: got %d, want 2", len(s.Chunks()))
	}
}

func TestSession_IngestInvalidChunk(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Ingest(context.Background(), testChunk("", "Earth orbits the Sun."))
	if !errors.Is(err, graph.ErrInvalidChunk) {
		t.Fatalf("error: got %v, want ErrInvalidChunk", err)
	}

	if len(s.Graph().Nodes) != 0 || len(s.Chunks()) != 0 {
		t.Error("rejected chunk must not change session state")
	}
}

func TestSession_RetractCascades(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	if _, err := s.Ingest(ctx, testChunk("c1", "Earth orbits the Sun.")); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if _, err := s.Ingest(ctx, testChunk("c2", "The Moon orbits Earth.")); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	result := s.Retract(ctx, "earth")

	if result.NodesRemoved != 1 {
		t.Errorf("NodesRemoved: got %d, want 1", result.NodesRemoved)
	}
	if result.EdgesRemoved != 2 {
		t.Errorf("EdgesRemoved: got %d, want 2", result.EdgesRemoved)
	}
	if result.ChunksScrubbed != 2 {
		t.Errorf("ChunksScrubbed: got %d, want 2", result.ChunksScrubbed)
	}

	g := s.Graph()
	if g.Node("earth") != nil || len(g.Edges) != 0 {
		t.Error("earth and its edges must be gone")
	}
	for _, c := range s.Chunks() {
		for _, id := range c.AffectedNodeIDs {
			if g.Node(id) == nil {
				t.Errorf("chunk %s references dead node %s", c.ID, id)
			}
		}
		for _, id := range c.AffectedEdgeIDs {
			if g.Edge(id) == nil {
				t.Errorf("chunk %s references dead edge %s", c.ID, id)
			}
		}
	}
}

func TestSession_RetractUnknownNode(t *testing.T) {
	s := newTestSession(t)

	result := s.Retract(context.Background(), "pluto")
	if result.NodesRemoved != 0 || result.EdgesRemoved != 0 || result.ChunksScrubbed != 0 {
		t.Errorf("unknown retraction: got %+v, want zero result", result)
	}
}

func TestSession_Process(t *testing.T) {
	s := newTestSession(t)

	doc := "The Sun is a star.\n\nEight planets orbit the Sun, including Earth and Mars.\n"
	n, err := s.Process(context.Background(), doc)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if n != 2 {
		t.Errorf("chunks ingested: got %d, want 2", n)
	}
	if len(s.Graph().Nodes) != 3 || len(s.Graph().Edges) != 1 {
		t.Errorf("graph: got %d nodes, %d edges, want 3/1", len(s.Graph().Nodes), len(s.Graph().Edges))
	}
}

func TestSession_ProcessCancellation(t *testing.T) {
	s, err := New(Config{Delay: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The first chunk is ingested before the first delay; cancellation stops
	// the stream at the next inter-chunk pause.
	doc := "The Sun is a star.\nEarth is a planet.\nMars is a planet.\n"
	n, err := s.Process(ctx, doc)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error: got %v, want context.Canceled", err)
	}
	if n != 1 {
		t.Errorf("chunks ingested before cancel: got %d, want 1", n)
	}
	if len(s.Chunks()) != 1 {
		t.Errorf("history: got %d chunks, want 1 (partial progress retained)", len(s.Chunks()))
	}
}

func TestSession_RootNodesAndRelationships(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	if _, err := s.Ingest(ctx, testChunk("c1", "Earth orbits the Sun.")); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	roots := s.RootNodes()
	if len(roots) != 1 || roots[0].ID != "sun" {
		t.Errorf("roots: got %+v, want [sun]", roots)
	}

	parents, children := s.RelationshipsOf("earth")
	if len(parents) != 1 || parents[0].Node.ID != "sun" {
		t.Errorf("parents of earth: got %+v, want sun", parents)
	}
	if len(children) != 0 {
		t.Errorf("children of earth: got %+v, want none", children)
	}
}

func TestSession_Export(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	if _, err := s.Ingest(ctx, testChunk("c1", "Earth orbits the Sun.")); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	var buf bytes.Buffer
	if err := s.Export(ctx, &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var doc graph.ExportDocument
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("export round-trip failed: %v", err)
	}
	if len(doc.GraphData.Nodes) != 2 || len(doc.GraphData.Edges) != 1 || len(doc.Chunks) != 1 {
		t.Errorf("export: got %d nodes, %d edges, %d chunks", len(doc.GraphData.Nodes), len(doc.GraphData.Edges), len(doc.Chunks))
	}
}

// captureExporter records trace records in memory for assertions.
type captureExporter struct {
	records []*trace.TraceRecord
}

func (c *captureExporter) Export(ctx context.Context, record *trace.TraceRecord) error {
	c.records = append(c.records, record)
	return nil
}

func (c *captureExporter) Close() error { return nil }

func TestSession_Instrumentation(t *testing.T) {
	exporter := &captureExporter{}
	s, err := New(Config{
		Delay:   time.Millisecond,
		Metrics: metrics.NewCollector(),
		Traces:  exporter,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ctx := context.Background()

	if _, err := s.Ingest(ctx, testChunk("c1", "Earth orbits the Sun.")); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	s.Retract(ctx, "earth")

	if len(exporter.records) != 2 {
		t.Fatalf("trace records: got %d, want 2", len(exporter.records))
	}

	ingest := exporter.records[0]
	if ingest.Operation != "ingest" || ingest.Status != "success" {
		t.Errorf("ingest record: got %+v", ingest)
	}
	if ingest.OperationID == "" {
		t.Error("ingest record missing operation id")
	}
	if len(ingest.Spans) != 1 || ingest.Spans[0].Name != "transition" {
		t.Errorf("ingest spans: got %+v", ingest.Spans)
	}
	if ingest.Spans[0].Counters["nodesCreated"] != 2 || ingest.Spans[0].Counters["edgesCreated"] != 1 {
		t.Errorf("ingest counters: got %+v", ingest.Spans[0].Counters)
	}

	retract := exporter.records[1]
	if retract.Operation != "retract" {
		t.Errorf("retract record: got %+v", retract)
	}
	if retract.Spans[0].Counters["edgesRemoved"] != 1 {
		t.Errorf("retract counters: got %+v", retract.Spans[0].Counters)
	}
}

func TestSession_InstrumentationOnError(t *testing.T) {
	exporter := &captureExporter{}
	s, err := New(Config{Delay: time.Millisecond, Traces: exporter})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := s.Ingest(context.Background(), testChunk("", "whatever")); err == nil {
		t.Fatal("expected validation error")
	}

	if len(exporter.records) != 1 {
		t.Fatalf("trace records: got %d, want 1", len(exporter.records))
	}
	record := exporter.records[0]
	if record.Status != "error" || record.ErrorType != ErrTypeValidation {
		t.Errorf("error record: got status=%q errorType=%q", record.Status, record.ErrorType)
	}
}
