package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	pplxmcp "github.com/pplx2md/pplx2md/internal/mcp"
)

// newServeCmd creates the serve command.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Long: `Run a Model Context Protocol server over stdin/stdout.

The server exposes two tools: inspect_export summarizes an export file and
convert_export turns it into Markdown documents. Register it with an MCP
client such as Claude Desktop:

  {
    "mcpServers": {
      "pplx2md": {
        "command": "pplx2md",
        "args": ["serve"]
      }
    }
  }`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := pplxmcp.NewServer(buildVersion())
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
