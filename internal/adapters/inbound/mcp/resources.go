package mcp

import (
	"context"
	"fmt"
	"os"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/twmigrate/twmigrate/internal/adapters/outbound/config"
	"github.com/twmigrate/twmigrate/internal/adapters/outbound/state"
)

// registerResources registers all twmigrate MCP resources on the given
// server.
func registerResources(s *server.MCPServer, projectPath string) {
	// 1. twmigrate://plan - the persisted migration plan
	s.AddResource(
		mcplib.NewResource(
			"twmigrate://plan",
			"Migration Plan",
			mcplib.WithResourceDescription("The current persisted migration plan"),
			mcplib.WithMIMEType("application/json"),
		),
		handleStateFileResource(projectPath, "twmigrate://plan", func(store *state.Store) string {
			return store.PlanPath()
		}),
	)

	// 2. twmigrate://checkpoint - resumability state
	s.AddResource(
		mcplib.NewResource(
			"twmigrate://checkpoint",
			"Migration Checkpoint",
			mcplib.WithResourceDescription("Which steps of the current plan have been processed"),
			mcplib.WithMIMEType("application/json"),
		),
		handleStateFileResource(projectPath, "twmigrate://checkpoint", func(store *state.Store) string {
			return store.CheckpointPath()
		}),
	)
}

func handleStateFileResource(projectPath, uri string, path func(*state.Store) string) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		cfg, err := config.New().Load(projectPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}

		data, err := os.ReadFile(path(state.New(projectPath, cfg.StateDir)))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", uri, err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
