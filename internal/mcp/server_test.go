package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/docproc/internal/config"
	"github.com/dshills/docproc/internal/summarizer"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	// Pin the provider so ambient API keys never select a live LLM.
	t.Setenv(summarizer.EnvProvider, summarizer.ProviderNone)
	return &config.Config{
		ChunkSize:          128,
		ChunkOverlap:       10,
		MinChunkSize:       20,
		TokenStrategy:      "heuristic",
		SummaryTargetWords: 30,
		LLMProvider:        summarizer.ProviderNone,
		SearchBackend:      config.BackendBleve,
		ChunkIndex:         "chunks",
		DocumentIndex:      "documents",
		DataDir:            t.TempDir(),
		BatchConcurrency:   2,
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(testConfig(t))
	require.NoError(t, err)
	t.Cleanup(s.close)
	return s
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	tc, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(tc.Text), &decoded))
	return decoded
}

func TestNewServer(t *testing.T) {
	s := newTestServer(t)
	assert.NotNil(t, s.mcp)
	assert.NotNil(t, s.processor)
	assert.NotNil(t, s.registry)
	assert.NotNil(t, s.store)
}

func TestHandleProcessDocument(t *testing.T) {
	s := newTestServer(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	content := strings.Repeat("Minutes from the planning meeting. Action items were assigned. ", 20)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	result, err := s.handleProcessDocument(context.Background(), callRequest(map[string]interface{}{
		"path":      path,
		"summarize": true,
	}))
	require.NoError(t, err)

	response := resultJSON(t, result)
	assert.Equal(t, "notes.txt", response["file_id"])
	assert.Equal(t, true, response["indexed"])
	assert.Equal(t, false, response["skipped"])
	assert.Greater(t, response["chunk_count"].(float64), 0.0)
	assert.NotEmpty(t, response["summary"])

	// Second run is skipped via the content hash.
	result, err = s.handleProcessDocument(context.Background(), callRequest(map[string]interface{}{
		"path": path,
	}))
	require.NoError(t, err)
	response = resultJSON(t, result)
	assert.Equal(t, true, response["skipped"])
}

func TestHandleProcessDocumentValidation(t *testing.T) {
	s := newTestServer(t)

	t.Run("missing path", func(t *testing.T) {
		_, err := s.handleProcessDocument(context.Background(), callRequest(map[string]interface{}{}))
		var mcpErr *MCPError
		require.ErrorAs(t, err, &mcpErr)
		assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
	})

	t.Run("relative path", func(t *testing.T) {
		_, err := s.handleProcessDocument(context.Background(), callRequest(map[string]interface{}{
			"path": "relative/file.txt",
		}))
		var mcpErr *MCPError
		require.ErrorAs(t, err, &mcpErr)
		assert.Equal(t, ErrorCodeFileNotFound, mcpErr.Code)
	})

	t.Run("nonexistent path", func(t *testing.T) {
		_, err := s.handleProcessDocument(context.Background(), callRequest(map[string]interface{}{
			"path": "/nowhere/missing.txt",
		}))
		var mcpErr *MCPError
		require.ErrorAs(t, err, &mcpErr)
		assert.Equal(t, ErrorCodeFileNotFound, mcpErr.Code)
	})
}

func TestHandleSearchChunks(t *testing.T) {
	s := newTestServer(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "roadmap.txt")
	content := strings.Repeat("The roadmap describes milestones for the migration project. ", 15)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := s.handleProcessDocument(context.Background(), callRequest(map[string]interface{}{
		"path":    path,
		"file_id": "roadmap-1",
	}))
	require.NoError(t, err)

	result, err := s.handleSearchChunks(context.Background(), callRequest(map[string]interface{}{
		"query":  "migration milestones",
		"filter": "file_id = roadmap-1",
	}))
	require.NoError(t, err)

	response := resultJSON(t, result)
	hits := response["results"].([]interface{})
	require.NotEmpty(t, hits)
	first := hits[0].(map[string]interface{})
	assert.Equal(t, "roadmap-1", first["file_id"])
	assert.NotEmpty(t, first["chunk_preview"])
}

func TestHandleSearchChunksValidation(t *testing.T) {
	s := newTestServer(t)

	t.Run("empty query", func(t *testing.T) {
		_, err := s.handleSearchChunks(context.Background(), callRequest(map[string]interface{}{}))
		var mcpErr *MCPError
		require.ErrorAs(t, err, &mcpErr)
		assert.Equal(t, ErrorCodeEmptyQuery, mcpErr.Code)
	})

	t.Run("limit out of range", func(t *testing.T) {
		_, err := s.handleSearchChunks(context.Background(), callRequest(map[string]interface{}{
			"query": "anything",
			"limit": float64(500),
		}))
		var mcpErr *MCPError
		require.ErrorAs(t, err, &mcpErr)
		assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
	})

	t.Run("malformed filter", func(t *testing.T) {
		_, err := s.handleSearchChunks(context.Background(), callRequest(map[string]interface{}{
			"query":  "anything",
			"filter": "not a filter",
		}))
		var mcpErr *MCPError
		require.ErrorAs(t, err, &mcpErr)
		assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
	})
}

func TestHandleGetStatus(t *testing.T) {
	s := newTestServer(t)

	t.Run("aggregate with empty registry", func(t *testing.T) {
		result, err := s.handleGetStatus(context.Background(), callRequest(nil))
		require.NoError(t, err)
		response := resultJSON(t, result)
		assert.Equal(t, 0.0, response["documents"])
	})

	t.Run("unknown document", func(t *testing.T) {
		result, err := s.handleGetStatus(context.Background(), callRequest(map[string]interface{}{
			"file_id": "never-processed",
		}))
		require.NoError(t, err)
		response := resultJSON(t, result)
		assert.Equal(t, false, response["processed"])
	})

	t.Run("processed document", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "brief.txt")
		require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("Design brief text. ", 30)), 0o644))

		_, err := s.handleProcessDocument(context.Background(), callRequest(map[string]interface{}{
			"path": path,
		}))
		require.NoError(t, err)

		result, err := s.handleGetStatus(context.Background(), callRequest(map[string]interface{}{
			"file_id": "brief.txt",
		}))
		require.NoError(t, err)
		response := resultJSON(t, result)
		assert.Equal(t, true, response["processed"])

		doc := response["document"].(map[string]interface{})
		assert.Equal(t, "brief.txt", doc["filename"])
		assert.Greater(t, doc["chunk_count"].(float64), 0.0)
	})
}
