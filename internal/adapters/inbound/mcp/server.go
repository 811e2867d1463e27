package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewTwmigrateMCPServer creates a new MCP server with all twmigrate
// tools and resources registered. The projectPath is the root directory
// of the project being migrated.
func NewTwmigrateMCPServer(projectPath string) *server.MCPServer {
	s := server.NewMCPServer(
		"twmigrate",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, projectPath)
	registerResources(s, projectPath)

	return s
}
