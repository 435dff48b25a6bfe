package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dshills/docproc/internal/chunker"
	"github.com/dshills/docproc/internal/docstore"
	"github.com/dshills/docproc/internal/extractor"
	"github.com/dshills/docproc/internal/registry"
	"github.com/dshills/docproc/internal/summarizer"
	"github.com/dshills/docproc/internal/tokenizer"
	"github.com/dshills/docproc/pkg/types"
)

// ErrProcessing wraps failures of a full processing pass
var ErrProcessing = errors.New("document processing failed")

// Search index names
const (
	// DefaultChunkIndex is the search index chunks are written to
	DefaultChunkIndex = "chunks"
	// DefaultDocumentIndex is the search index document records are written to
	DefaultDocumentIndex = "documents"
)

// DocumentProcessor runs the extract, chunk, summarize, index pipeline. The
// chunker is the only mandatory component; summarizer, store, and registry
// are optional and skipped when absent.
type DocumentProcessor struct {
	chunkCfg    chunker.Config
	counter     tokenizer.Counter
	chunker     *chunker.Chunker
	extractors  *extractor.Registry
	summarizer  summarizer.Summarizer
	store       docstore.Store
	registry    registry.Registry
	logger      *log.Logger
	targetWords int
	chunkIndex  string
	docIndex    string
}

// Option configures a DocumentProcessor
type Option func(*DocumentProcessor)

// WithChunkConfig overrides the default chunking configuration.
func WithChunkConfig(cfg chunker.Config) Option {
	return func(p *DocumentProcessor) { p.chunkCfg = cfg }
}

// WithCounter sets the token counter used for chunking and summarization
// budgets.
func WithCounter(counter tokenizer.Counter) Option {
	return func(p *DocumentProcessor) { p.counter = counter }
}

// WithSummarizer enables summarization.
func WithSummarizer(s summarizer.Summarizer) Option {
	return func(p *DocumentProcessor) { p.summarizer = s }
}

// WithStore enables search indexing.
func WithStore(store docstore.Store) Option {
	return func(p *DocumentProcessor) { p.store = store }
}

// WithRegistry enables processing records and content-hash skip.
func WithRegistry(reg registry.Registry) Option {
	return func(p *DocumentProcessor) { p.registry = reg }
}

// WithOCRClient enables image extraction.
func WithOCRClient(ocr extractor.OCRClient) Option {
	return func(p *DocumentProcessor) { p.extractors = extractor.NewRegistry(ocr) }
}

// WithLogger sets the structured logger.
func WithLogger(logger *log.Logger) Option {
	return func(p *DocumentProcessor) { p.logger = logger }
}

// WithSummaryTargetWords sets the summary length.
func WithSummaryTargetWords(words int) Option {
	return func(p *DocumentProcessor) { p.targetWords = words }
}

// WithChunkIndex names the search index chunks are written to. An empty
// name keeps the default.
func WithChunkIndex(name string) Option {
	return func(p *DocumentProcessor) {
		if name != "" {
			p.chunkIndex = name
		}
	}
}

// WithDocumentIndex names the search index document records are written to.
// An empty name keeps the default.
func WithDocumentIndex(name string) Option {
	return func(p *DocumentProcessor) {
		if name != "" {
			p.docIndex = name
		}
	}
}

// New creates a processor. An invalid chunk configuration is an error here,
// never silently corrected.
func New(opts ...Option) (*DocumentProcessor, error) {
	p := &DocumentProcessor{
		chunkCfg:    chunker.DefaultConfig(),
		extractors:  extractor.NewRegistry(nil),
		logger:      log.Default(),
		targetWords: summarizer.DefaultTargetWords,
		chunkIndex:  DefaultChunkIndex,
		docIndex:    DefaultDocumentIndex,
	}
	for _, opt := range opts {
		opt(p)
	}

	c, err := chunker.New(p.chunkCfg, p.counter)
	if err != nil {
		return nil, err
	}
	p.chunker = c
	return p, nil
}

// ExtractText converts a document file into plain text.
func (p *DocumentProcessor) ExtractText(ctx context.Context, path string) (*extractor.Result, error) {
	return p.extractors.Extract(ctx, path)
}

// ChunkText splits text into chunks stamped with the document identity.
func (p *DocumentProcessor) ChunkText(text string, identity types.DocumentIdentity) ([]*types.DocumentChunk, error) {
	return p.chunker.Chunk(text, identity)
}

// SummarizeText condenses text to the configured target word count. Without
// a configured summarizer it falls back to truncation.
func (p *DocumentProcessor) SummarizeText(ctx context.Context, text string) (string, error) {
	s := p.summarizer
	if s == nil {
		s = &summarizer.TruncationSummarizer{}
	}
	return s.Summarize(ctx, text, p.targetWords)
}

// ChunksToSearchDocuments converts chunks into store documents. Each carries
// the chunk fields plus a bounded chunk_preview for display in results.
func ChunksToSearchDocuments(chunks []*types.DocumentChunk) []docstore.Document {
	docs := make([]docstore.Document, 0, len(chunks))
	for _, c := range chunks {
		doc := docstore.Document{
			"id":            c.ChunkID,
			"content":       c.ChunkText,
			"chunk_preview": c.Preview(docstore.PreviewLength),
			"chunk_number":  c.ChunkNumber,
			"total_chunks":  c.TotalChunks,
			"token_count":   c.TokenCount,
			"filename":      c.Filename,
		}
		if c.FileID != "" {
			doc["file_id"] = c.FileID
		}
		if c.OutputID != "" {
			doc["output_id"] = c.OutputID
		}
		if c.ProjectID != nil {
			doc["project_id"] = *c.ProjectID
		}
		for k, v := range c.Metadata {
			if _, taken := doc[k]; !taken {
				doc[k] = v
			}
		}
		docs = append(docs, doc)
	}
	return docs
}

// ProcessOptions select which pipeline stages run for one document.
type ProcessOptions struct {
	Identity  types.DocumentIdentity
	Chunk     bool
	Summarize bool
	Index     bool

	// Force re-processes even when the registry holds an identical
	// content hash.
	Force bool
}

// Process runs the pipeline over one file.
func (p *DocumentProcessor) Process(ctx context.Context, path string, opts ProcessOptions) (*types.ProcessResult, error) {
	identity := opts.Identity
	if identity.Filename == "" {
		identity.Filename = filepath.Base(path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrProcessing, path, err)
	}
	contentHash := registry.ComputeContentHash(content)

	if p.registry != nil && !opts.Force {
		existing, err := p.registry.Get(ctx, identity.IDBase())
		if err == nil && existing.ContentHash == contentHash {
			p.logger.Info("skipping unchanged document", "file", identity.Filename)
			return &types.ProcessResult{Identity: identity, Skipped: true}, nil
		}
	}

	extracted, err := p.ExtractText(ctx, path)
	if err != nil {
		return nil, err
	}

	result := &types.ProcessResult{
		Text:      extracted.Text,
		PageCount: extracted.PageCount,
		Metadata:  extracted.Metadata,
		Identity:  identity,
	}
	if extracted.Text == "" {
		p.logger.Info("document produced no text", "file", identity.Filename)
	} else {
		p.logger.Debug("extracted document",
			"file", identity.Filename, "pages", extracted.PageCount, "chars", len(extracted.Text))
	}

	if opts.Chunk || opts.Index {
		chunks, err := p.ChunkText(extracted.Text, identity)
		if err != nil {
			return nil, err
		}
		result.Chunks = chunks
		p.logger.Debug("chunked document", "file", identity.Filename, "chunks", len(chunks))
	}

	if opts.Summarize && extracted.Text != "" {
		summary, err := p.SummarizeText(ctx, extracted.Text)
		if err != nil {
			return nil, err
		}
		result.Summary = summary
	}

	if opts.Index && p.store != nil && len(result.Chunks) > 0 {
		if err := p.indexChunks(ctx, result.Chunks); err != nil {
			return nil, err
		}
		if err := p.indexDocumentRecord(ctx, result); err != nil {
			return nil, err
		}
		result.Indexed = true
		p.logger.Info("indexed document",
			"file", identity.Filename, "index", p.chunkIndex, "chunks", len(result.Chunks))
	}

	if p.registry != nil {
		record := &registry.Document{
			FileID:      identity.IDBase(),
			Filename:    identity.Filename,
			ProjectID:   identity.ProjectID,
			ContentHash: contentHash,
			Format:      extracted.Metadata["format"],
			PageCount:   extracted.PageCount,
			ChunkCount:  len(result.Chunks),
			TokenCount:  result.TotalTokens(),
			Summary:     result.Summary,
			ProcessedAt: time.Now(),
		}
		if err := p.registry.Upsert(ctx, record); err != nil {
			return nil, fmt.Errorf("%w: recording %s: %v", ErrProcessing, identity.Filename, err)
		}
	}

	return result, nil
}

// indexChunks replaces any previously indexed chunks for the document, then
// writes the new set.
func (p *DocumentProcessor) indexChunks(ctx context.Context, chunks []*types.DocumentChunk) error {
	if err := p.store.CreateIndex(ctx, p.chunkIndex, "id"); err != nil {
		return err
	}

	idBase := chunks[0].FileID
	field := "file_id"
	if idBase == "" {
		idBase = chunks[0].Filename
		field = "filename"
	}
	if err := p.store.DeleteByFilter(ctx, p.chunkIndex, docstore.Filter{Field: field, Value: idBase}); err != nil {
		return err
	}

	return p.store.Upsert(ctx, p.chunkIndex, ChunksToSearchDocuments(chunks))
}

// indexDocumentRecord upserts one metadata record per document into the
// document index. The record id is the identity base, so re-processing
// replaces it in place.
func (p *DocumentProcessor) indexDocumentRecord(ctx context.Context, result *types.ProcessResult) error {
	if err := p.store.CreateIndex(ctx, p.docIndex, "id"); err != nil {
		return err
	}

	doc := docstore.Document{
		"id":          result.Identity.IDBase(),
		"filename":    result.Identity.Filename,
		"format":      result.Metadata["format"],
		"page_count":  result.PageCount,
		"chunk_count": len(result.Chunks),
		"token_count": result.TotalTokens(),
		"indexed_at":  time.Now().UTC().Format(time.RFC3339),
	}
	if result.Identity.FileID != "" {
		doc["file_id"] = result.Identity.FileID
	}
	if result.Identity.ProjectID != nil {
		doc["project_id"] = *result.Identity.ProjectID
	}
	if result.Summary != "" {
		doc["summary"] = result.Summary
	}
	return p.store.Upsert(ctx, p.docIndex, []docstore.Document{doc})
}

// Search queries the chunk index.
func (p *DocumentProcessor) Search(ctx context.Context, query string, opts docstore.SearchOptions) (*docstore.SearchResults, error) {
	if p.store == nil {
		return nil, fmt.Errorf("%w: no document store configured", ErrProcessing)
	}
	return p.store.Search(ctx, p.chunkIndex, query, opts)
}

// Registry exposes the processing record store, when configured.
func (p *DocumentProcessor) Registry() registry.Registry {
	return p.registry
}
