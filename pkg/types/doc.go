// Package types provides shared type definitions for the docproc pipeline.
//
// This package defines the domain types used across components: document
// identity, chunks, and processing results.
//
// # Core Types
//
// DocumentIdentity names a document and carries the provenance attributes
// copied onto every chunk produced from it:
//
//	identity := types.DocumentIdentity{
//	    FileID:   "doc-12345",
//	    Filename: "report.pdf",
//	    Metadata: map[string]string{"department": "research"},
//	}
//
// DocumentChunk is the persisted unit handed to search indexers:
//
//	chunk := chunks[0]
//	fmt.Printf("chunk %d of %d: %d tokens\n",
//	    chunk.ChunkNumber, chunk.TotalChunks, chunk.TokenCount)
//
// # Chunk Identifiers
//
// Chunk IDs are a deterministic function of the document's ID base (file ID
// or filename) and the chunk ordinal:
//
//	id := types.ChunkID("doc-12345", 0)
//
// Re-chunking the same document with the same configuration reproduces
// identical IDs, so pushing the chunks into a search index a second time
// overwrites rather than duplicates.
//
// # Validation
//
// Domain types implement validation methods to ensure data integrity:
//
//	if err := chunk.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package types
