package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dshills/docproc/internal/chunker"
	"github.com/dshills/docproc/internal/config"
	"github.com/dshills/docproc/internal/docstore"
	"github.com/dshills/docproc/internal/processor"
	"github.com/dshills/docproc/internal/registry"
	"github.com/dshills/docproc/internal/summarizer"
	"github.com/dshills/docproc/internal/tokenizer"
)

var version = "dev"

const usage = `docproc - document processing pipeline

Usage:
  docproc process [flags] <file>...   Extract, chunk, and index documents
  docproc search  [flags] <query>     Search indexed chunks
  docproc status  [file_id]           Show processing records
  docproc --version

Run "docproc <command> -h" for command flags.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if os.Args[1] == "--version" {
		fmt.Printf("docproc %s (build mode %s)\n", version, registry.BuildMode)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "docproc: %v\n", err)
		os.Exit(1)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	ctx := context.Background()
	switch os.Args[1] {
	case "process":
		err = runProcess(ctx, cfg, logger, os.Args[2:])
	case "search":
		err = runSearch(ctx, cfg, logger, os.Args[2:])
	case "status":
		err = runStatus(ctx, cfg, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Fatal("command failed", "error", err)
	}
}

// buildComponents wires the store and registry from configuration.
func buildComponents(cfg *config.Config) (docstore.Store, registry.Registry, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating data directory: %w", err)
	}

	reg, err := registry.NewSQLiteRegistry(cfg.RegistryPath())
	if err != nil {
		return nil, nil, err
	}

	var store docstore.Store
	if cfg.SearchBackend == config.BackendMeilisearch {
		store = docstore.NewMeiliStore(cfg.MeiliHost, cfg.MeiliAPIKey, cfg.MeiliIndexPrefix)
	} else {
		if err := os.MkdirAll(cfg.IndexDir(), 0755); err != nil {
			_ = reg.Close()
			return nil, nil, fmt.Errorf("creating index directory: %w", err)
		}
		store = docstore.NewBleveStore(cfg.IndexDir())
	}
	return store, reg, nil
}

func buildProcessor(cfg *config.Config, logger *log.Logger, store docstore.Store, reg registry.Registry, summarize bool) (*processor.DocumentProcessor, error) {
	counter, err := tokenizer.New(cfg.TokenStrategy, cfg.TokenEncoding)
	if err != nil {
		return nil, err
	}

	opts := []processor.Option{
		processor.WithChunkConfig(chunker.Config{
			ChunkSize:    cfg.ChunkSize,
			ChunkOverlap: cfg.ChunkOverlap,
			MinChunkSize: cfg.MinChunkSize,
		}),
		processor.WithCounter(counter),
		processor.WithStore(store),
		processor.WithRegistry(reg),
		processor.WithSummaryTargetWords(cfg.SummaryTargetWords),
		processor.WithChunkIndex(cfg.ChunkIndex),
		processor.WithDocumentIndex(cfg.DocumentIndex),
		processor.WithLogger(logger),
	}

	if summarize {
		summ, err := summarizer.New(summarizer.Config{
			Provider: cfg.LLMProvider,
			Counter:  counter,
		})
		if err != nil {
			return nil, err
		}
		logger.Debug("summarizer selected", "name", summ.Name())
		opts = append(opts, processor.WithSummarizer(summ))
	}

	return processor.New(opts...)
}

func runProcess(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	summarize := fs.Bool("summarize", false, "generate a summary for each document")
	index := fs.Bool("index", true, "index chunks for search")
	force := fs.Bool("force", false, "re-process unchanged documents")
	projectID := fs.Int64("project", 0, "project id attached to every chunk")
	workers := fs.Int("workers", cfg.BatchConcurrency, "concurrent workers")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("process: at least one file is required")
	}

	store, reg, err := buildComponents(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
		_ = reg.Close()
	}()

	proc, err := buildProcessor(cfg, logger, store, reg, *summarize)
	if err != nil {
		return err
	}

	opts := processor.ProcessOptions{
		Chunk:     true,
		Summarize: *summarize,
		Index:     *index,
		Force:     *force,
	}
	if *projectID != 0 {
		opts.Identity.ProjectID = projectID
	}

	stats, err := proc.ProcessBatch(ctx, fs.Args(), opts, *workers)
	if err != nil {
		return err
	}

	fmt.Printf("Processed: %d  Skipped: %d  Failed: %d\n",
		stats.FilesProcessed, stats.FilesSkipped, stats.FilesFailed)
	fmt.Printf("Chunks: %d  Tokens: %d  Duration: %s\n",
		stats.ChunksCreated, stats.TokensCounted, stats.Duration.Round(time.Millisecond))
	for _, msg := range stats.ErrorMessages {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	}
	if stats.FilesFailed > 0 {
		os.Exit(1)
	}
	return nil
}

func runSearch(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	limit := fs.Int("limit", 10, "maximum results")
	filterExpr := fs.String("filter", "", `equality filter, e.g. "file_id = abc123"`)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("search: a query is required")
	}
	query := strings.Join(fs.Args(), " ")

	store, reg, err := buildComponents(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
		_ = reg.Close()
	}()

	proc, err := buildProcessor(cfg, logger, store, reg, false)
	if err != nil {
		return err
	}

	searchOpts := docstore.SearchOptions{Limit: *limit}
	if *filterExpr != "" {
		filter, err := docstore.ParseFilter(*filterExpr)
		if err != nil {
			return err
		}
		searchOpts.Filter = filter
	}

	results, err := proc.Search(ctx, query, searchOpts)
	if err != nil {
		return err
	}

	fmt.Printf("%d results (of %d)\n\n", len(results.Hits), results.Total)
	for i, hit := range results.Hits {
		preview, _ := hit.Fields["chunk_preview"].(string)
		filename, _ := hit.Fields["filename"].(string)
		fmt.Printf("%d. %s  [%s]  score=%.3f\n", i+1, hit.ID, filename, hit.Score)
		if preview != "" {
			fmt.Printf("   %s\n", preview)
		}
	}
	return nil
}

func runStatus(ctx context.Context, cfg *config.Config, args []string) error {
	reg, err := registry.NewSQLiteRegistry(cfg.RegistryPath())
	if err != nil {
		return err
	}
	defer func() {
		_ = reg.Close()
	}()

	if len(args) > 0 {
		doc, err := reg.Get(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("File ID:      %s\n", doc.FileID)
		fmt.Printf("Filename:     %s\n", doc.Filename)
		fmt.Printf("Format:       %s\n", doc.Format)
		fmt.Printf("Pages:        %d\n", doc.PageCount)
		fmt.Printf("Chunks:       %d\n", doc.ChunkCount)
		fmt.Printf("Tokens:       %d\n", doc.TokenCount)
		fmt.Printf("Processed at: %s\n", doc.ProcessedAt.Format("2006-01-02 15:04:05"))
		if doc.Summary != "" {
			fmt.Printf("Summary:      %s\n", doc.Summary)
		}
		return nil
	}

	stats, err := reg.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Documents: %d\n", stats.Documents)
	fmt.Printf("Chunks:    %d\n", stats.TotalChunks)
	fmt.Printf("Tokens:    %d\n", stats.TotalTokens)
	return nil
}
