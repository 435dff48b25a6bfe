package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// processDocumentTool returns the tool definition for process_document
func processDocumentTool() mcp.Tool {
	return mcp.Tool{
		Name:        "process_document",
		Description: "Extract, chunk, summarize, and index a document file",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the document file",
				},
				"file_id": map[string]interface{}{
					"type":        "string",
					"description": "Stable external identifier for the document (defaults to the filename)",
				},
				"project_id": map[string]interface{}{
					"type":        "integer",
					"description": "Optional project scope attached to every chunk",
				},
				"summarize": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, generate a summary of the document",
					"default":     false,
				},
				"index": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, index the chunks for search",
					"default":     true,
				},
				"force": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, re-process even when the content is unchanged",
					"default":     false,
				},
			},
			Required: []string{"path"},
		},
	}
}

// searchChunksTool returns the tool definition for search_chunks
func searchChunksTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_chunks",
		Description: "Full-text search over indexed document chunks",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
				"filter": map[string]interface{}{
					"type":        "string",
					"description": "Optional equality filter, e.g. \"file_id = abc123\"",
				},
			},
			Required: []string{"query"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Query processing records and aggregate statistics",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"file_id": map[string]interface{}{
					"type":        "string",
					"description": "Return the record for one document instead of aggregate statistics",
				},
			},
		},
	}
}
