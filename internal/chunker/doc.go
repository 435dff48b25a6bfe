// Package chunker divides document text into ordered, token-bounded,
// overlapping segments for embedding and search.
//
// The chunker splits at natural text boundaries (paragraph breaks, sentence
// ends, newlines, word breaks) to preserve semantic meaning, falling back to
// a hard cut only when no boundary exists within the search window.
//
// # Basic Usage
//
//	c, err := chunker.New(chunker.DefaultConfig(), nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	chunks, err := c.Chunk(text, types.DocumentIdentity{Filename: "report.txt"})
//	for _, chunk := range chunks {
//	    fmt.Printf("chunk %d/%d: %d tokens\n",
//	        chunk.ChunkNumber, chunk.TotalChunks, chunk.TokenCount)
//	}
//
// # Size Rules
//
// Every chunk except the last satisfies
//
//	MinChunkSize <= TokenCount <= ChunkSize
//
// under the configured counter, with one exception: when the only available
// boundary leaves a span under the minimum, the undersized chunk is emitted
// as-is rather than merged into a neighbor. The last chunk of a document may
// always be shorter than the minimum. A document whose total token count is
// below MinChunkSize produces exactly one chunk.
//
// # Overlap
//
// ChunkOverlap tokens of trailing context are repeated at the start of the
// following chunk. Concatenating chunk texts in order and dropping each
// chunk's overlap prefix reconstructs the original text exactly.
//
// # Determinism
//
// Chunking is pure: the same text, configuration, and identity always
// produce the same chunk IDs, texts, and ordering. Chunk IDs derive from
// the file ID (or filename) and the chunk ordinal, so re-chunking feeds
// idempotent upserts into downstream indexes.
package chunker
