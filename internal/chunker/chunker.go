package chunker

import (
	"strings"

	"github.com/dshills/docproc/internal/tokenizer"
	"github.com/dshills/docproc/pkg/types"
)

// Chunker converts arbitrary-length text into ordered, bounded, overlapping
// chunk records. It is stateless across calls and safe for concurrent use:
// each Chunk call only reads its inputs and allocates its own outputs.
type Chunker struct {
	cfg     Config
	counter tokenizer.Counter
}

// New creates a Chunker with the given configuration and token counter. A
// nil counter selects the chars/4 heuristic. The configuration is validated
// here, before any scanning occurs.
func New(cfg Config, counter tokenizer.Counter) (*Chunker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if counter == nil {
		counter = tokenizer.NewHeuristicCounter()
	}
	return &Chunker{cfg: cfg, counter: counter}, nil
}

// Config returns the chunker's configuration.
func (c *Chunker) Config() Config {
	return c.cfg
}

// Counter returns the token counter used for this chunker's passes.
func (c *Chunker) Counter() tokenizer.Counter {
	return c.counter
}

// Chunk splits text into ordered DocumentChunks carrying the document's
// identity. Empty or whitespace-only text yields a nil slice and no error.
// Building is two-phase: all spans are computed first, then each chunk is
// stamped with its ordinal and the final total.
func (c *Chunker) Chunk(text string, identity types.DocumentIdentity) ([]*types.DocumentChunk, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	runes := []rune(text)
	spans := newAssembler(c.cfg, c.counter).assemble(runes)
	return c.build(runes, spans, identity), nil
}

// build stamps identity and ordering metadata onto the assembled spans.
// Token counts are recomputed from the final chunk text rather than copied
// from assembly estimates, so they always describe the boundary-adjusted
// text that is actually persisted.
func (c *Chunker) build(runes []rune, spans []span, identity types.DocumentIdentity) []*types.DocumentChunk {
	total := len(spans)
	idBase := identity.IDBase()
	chunks := make([]*types.DocumentChunk, 0, total)
	for i, sp := range spans {
		chunkText := string(runes[sp.start:sp.end])
		chunks = append(chunks, &types.DocumentChunk{
			ChunkID:     types.ChunkID(idBase, i),
			ChunkText:   chunkText,
			ChunkNumber: i,
			TotalChunks: total,
			TokenCount:  c.counter.Count(chunkText),
			FileID:      identity.FileID,
			OutputID:    identity.OutputID,
			ProjectID:   identity.ProjectID,
			Filename:    identity.Filename,
			Metadata:    identity.Metadata,
		})
	}
	return chunks
}

// Chunk is the package-level convenience form of the chunking contract:
// one document, one configuration, one ordered chunk list.
func Chunk(text string, cfg Config, identity types.DocumentIdentity) ([]*types.DocumentChunk, error) {
	c, err := New(cfg, nil)
	if err != nil {
		return nil, err
	}
	return c.Chunk(text, identity)
}
