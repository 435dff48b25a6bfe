package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/docproc/internal/docstore"
	"github.com/dshills/docproc/internal/processor"
	"github.com/dshills/docproc/internal/registry"
	"github.com/dshills/docproc/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeFileNotFound  = -32001 // Specified path does not exist
	ErrorCodeEmptyQuery    = -32002 // Query parameter is empty
	ErrorCodeNotProcessed  = -32003 // Document not in the registry
)

// handleProcessDocument handles the process_document tool invocation
func (s *Server) handleProcessDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}
	if err := validateFilePath(path); err != nil {
		return nil, newMCPError(ErrorCodeFileNotFound, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	identity := types.DocumentIdentity{
		FileID:   getStringDefault(args, "file_id", ""),
		Filename: filepath.Base(path),
	}
	if pid, ok := args["project_id"].(float64); ok {
		projectID := int64(pid)
		identity.ProjectID = &projectID
	}

	opts := processor.ProcessOptions{
		Identity:  identity,
		Chunk:     true,
		Summarize: getBoolDefault(args, "summarize", false),
		Index:     getBoolDefault(args, "index", true),
		Force:     getBoolDefault(args, "force", false),
	}

	result, err := s.processor.Process(ctx, path, opts)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "processing failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"file_id":     result.Identity.IDBase(),
		"filename":    result.Identity.Filename,
		"skipped":     result.Skipped,
		"indexed":     result.Indexed,
		"page_count":  result.PageCount,
		"chunk_count": len(result.Chunks),
		"token_count": result.TotalTokens(),
	}
	if result.Summary != "" {
		response["summary"] = result.Summary
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSearchChunks handles the search_chunks tool invocation
func (s *Server) handleSearchChunks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	searchOpts := docstore.SearchOptions{Limit: limit}
	if expr := getStringDefault(args, "filter", ""); expr != "" {
		filter, err := docstore.ParseFilter(expr)
		if err != nil {
			return nil, newMCPError(ErrorCodeInvalidParams, "invalid filter", map[string]interface{}{
				"param":  "filter",
				"reason": err.Error(),
			})
		}
		searchOpts.Filter = filter
	}

	results, err := s.processor.Search(ctx, query, searchOpts)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	hits := make([]map[string]interface{}, 0, len(results.Hits))
	for _, hit := range results.Hits {
		entry := map[string]interface{}{
			"chunk_id": hit.ID,
			"score":    hit.Score,
		}
		for _, field := range []string{"chunk_preview", "filename", "file_id", "chunk_number", "total_chunks"} {
			if v, ok := hit.Fields[field]; ok {
				entry[field] = v
			}
		}
		hits = append(hits, entry)
	}

	response := map[string]interface{}{
		"query":   query,
		"total":   results.Total,
		"results": hits,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})

	if fileID := getStringDefault(args, "file_id", ""); fileID != "" {
		record, err := s.registry.Get(ctx, fileID)
		if errors.Is(err, registry.ErrNotFound) {
			response := map[string]interface{}{
				"processed": false,
				"file_id":   fileID,
				"message":   "Document not processed. Use process_document to process it.",
			}
			return mcp.NewToolResultText(formatJSON(response)), nil
		}
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to get document record", map[string]interface{}{
				"error": err.Error(),
			})
		}

		response := map[string]interface{}{
			"processed": true,
			"document": map[string]interface{}{
				"file_id":      record.FileID,
				"filename":     record.Filename,
				"format":       record.Format,
				"page_count":   record.PageCount,
				"chunk_count":  record.ChunkCount,
				"token_count":  record.TokenCount,
				"processed_at": record.ProcessedAt.Format("2006-01-02T15:04:05Z07:00"),
			},
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}

	stats, err := s.registry.Stats(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get statistics", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"documents":    stats.Documents,
		"total_chunks": stats.TotalChunks,
		"total_tokens": stats.TotalTokens,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validateFilePath checks that the path names an existing regular file
func validateFilePath(path string) error {
	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}
	if info.IsDir() {
		return ErrPathIsDirectory
	}
	return nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrPathIsDirectory = errors.New("path is a directory")
)
