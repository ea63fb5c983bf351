// Package mcp provides a Model Context Protocol server for pplx2md.
// It exposes export inspection and conversion as MCP tools that any
// MCP-capable agent can use.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer creates an MCP server with all pplx2md tools registered.
func NewServer(version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "pplx2md",
		Version: version,
	}, nil)
	registerTools(server)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// writeAnnotations returns annotations for the convert tool. Conversion
// regenerates derived files from the export, so repeating it is idempotent
// and nothing the user authored is destroyed.
func writeAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(false),
		IdempotentHint:  true,
		OpenWorldHint:   boolPtr(false),
	}
}

// registerTools adds all pplx2md tools to the server.
func registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name: "inspect_export",
		Description: "Summarize a Perplexity export file without writing anything: " +
			"conversation and exchange counts, per-collection totals, answer modes, and date range.",
		Annotations: readOnlyAnnotations(),
	}, handleInspect)

	mcp.AddTool(server, &mcp.Tool{
		Name: "convert_export",
		Description: "Convert a Perplexity export file into per-conversation Markdown documents " +
			"grouped into collection directories. Supports collection and date filters and a dry-run mode " +
			"that reports target paths without writing.",
		Annotations: writeAnnotations(),
	}, handleConvert)
}
