package mcp

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/docproc/internal/chunker"
	"github.com/dshills/docproc/internal/config"
	"github.com/dshills/docproc/internal/docstore"
	"github.com/dshills/docproc/internal/processor"
	"github.com/dshills/docproc/internal/registry"
	"github.com/dshills/docproc/internal/summarizer"
	"github.com/dshills/docproc/internal/tokenizer"
)

const (
	// ServerName is the MCP server name
	ServerName = "docproc-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp       *server.MCPServer
	processor *processor.DocumentProcessor
	registry  registry.Registry
	store     docstore.Store
}

// NewServer creates a new MCP server instance from configuration.
func NewServer(cfg *config.Config) (*Server, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	reg, err := registry.NewSQLiteRegistry(cfg.RegistryPath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize registry: %w", err)
	}

	var store docstore.Store
	switch cfg.SearchBackend {
	case config.BackendMeilisearch:
		store = docstore.NewMeiliStore(cfg.MeiliHost, cfg.MeiliAPIKey, cfg.MeiliIndexPrefix)
	default:
		if err := os.MkdirAll(cfg.IndexDir(), 0755); err != nil {
			_ = reg.Close()
			return nil, fmt.Errorf("failed to create index directory: %w", err)
		}
		store = docstore.NewBleveStore(cfg.IndexDir())
	}

	counter, err := tokenizer.New(cfg.TokenStrategy, cfg.TokenEncoding)
	if err != nil {
		_ = reg.Close()
		return nil, fmt.Errorf("failed to initialize token counter: %w", err)
	}

	summ, err := summarizer.New(summarizer.Config{
		Provider: cfg.LLMProvider,
		Counter:  counter,
	})
	if err != nil {
		_ = reg.Close()
		return nil, fmt.Errorf("failed to initialize summarizer: %w", err)
	}

	proc, err := processor.New(
		processor.WithChunkConfig(chunker.Config{
			ChunkSize:    cfg.ChunkSize,
			ChunkOverlap: cfg.ChunkOverlap,
			MinChunkSize: cfg.MinChunkSize,
		}),
		processor.WithCounter(counter),
		processor.WithStore(store),
		processor.WithRegistry(reg),
		processor.WithSummarizer(summ),
		processor.WithSummaryTargetWords(cfg.SummaryTargetWords),
		processor.WithChunkIndex(cfg.ChunkIndex),
		processor.WithDocumentIndex(cfg.DocumentIndex),
	)
	if err != nil {
		_ = reg.Close()
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize processor: %w", err)
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:       mcpServer,
		processor: proc,
		registry:  reg,
		store:     store,
	}

	s.registerTools()
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer s.close()
	return server.ServeStdio(s.mcp)
}

func (s *Server) close() {
	_ = s.registry.Close()
	_ = s.store.Close()
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(processDocumentTool(), s.handleProcessDocument)
	s.mcp.AddTool(searchChunksTool(), s.handleSearchChunks)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}
