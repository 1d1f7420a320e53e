// Package chunker turns document text into the ordered chunk stream consumed
// by the graph builder. A document is split on line breaks, blank lines are
// dropped, and each surviving line becomes one chunk with a deterministic
// content-derived id.
package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/dan-solli/docgraph/pkg/graph"
)

// Chunker splits documents into line chunks.
type Chunker struct {
	// Now supplies chunk timestamps. Defaults to time.Now; tests inject a
	// fixed clock for deterministic output.
	Now func() time.Time
}

// Chunk splits the input document into line chunks in document order.
// Windows line endings are handled; lines are trimmed and blank lines are
// dropped. An empty document yields an empty slice.
func (c *Chunker) Chunk(text string) []graph.Chunk {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	var chunks []graph.Chunk
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		chunks = append(chunks, graph.Chunk{
			ID:        generateChunkID(line, len(chunks)),
			Text:      line,
			Timestamp: now(),
		})
	}
	return chunks
}

// generateChunkID creates a deterministic ID using content hash and index.
func generateChunkID(text string, index int) string {
	hash := sha256.Sum256([]byte(text))
	hashStr := hex.EncodeToString(hash[:8])
	return fmt.Sprintf("%s-%d", hashStr, index)
}
