// Package mcp implements the Model Context Protocol (MCP) server for docproc.
//
// The MCP server exposes three tools to AI assistants:
//   - process_document: Extract, chunk, summarize, and index a document
//   - search_chunks: Full-text search over indexed chunks
//   - get_status: Query processing records and aggregate statistics
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// # Tool: process_document
//
// Run the pipeline over one file:
//
//	Request:
//	{
//	  "name": "process_document",
//	  "arguments": {
//	    "path": "/path/to/report.pdf",
//	    "summarize": true,
//	    "index": true
//	  }
//	}
//
//	Response:
//	{
//	  "file_id": "report.pdf",
//	  "page_count": 12,
//	  "chunk_count": 34,
//	  "token_count": 5600,
//	  "indexed": true,
//	  "summary": "..."
//	}
//
// # Tool: search_chunks
//
// Search indexed chunks, optionally scoped by an equality filter:
//
//	Request:
//	{
//	  "name": "search_chunks",
//	  "arguments": {
//	    "query": "quarterly revenue",
//	    "limit": 5,
//	    "filter": "file_id = report.pdf"
//	  }
//	}
//
// # Tool: get_status
//
// Without arguments it returns aggregate statistics; with file_id it returns
// the processing record for that document.
package mcp
