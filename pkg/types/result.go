package types

// ProcessResult is the outcome of a full processing pass over one document:
// extraction, optional chunking, optional summarization.
type ProcessResult struct {
	// Extraction
	Text      string
	PageCount int
	Metadata  map[string]string

	// Chunking (nil when chunking was not requested)
	Chunks []*DocumentChunk

	// Summarization (empty when summarization was not requested)
	Summary string

	// Provenance
	Identity DocumentIdentity

	// Indexing
	Indexed bool

	// Skipped is set when the registry already holds this content hash and
	// re-processing was not forced.
	Skipped bool
}

// TotalTokens sums the token counts of all chunks.
func (r *ProcessResult) TotalTokens() int {
	total := 0
	for _, c := range r.Chunks {
		total += c.TokenCount
	}
	return total
}
