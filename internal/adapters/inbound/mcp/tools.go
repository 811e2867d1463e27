package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/twmigrate/twmigrate/internal/adapters/outbound/config"
	"github.com/twmigrate/twmigrate/internal/adapters/outbound/fsio"
	"github.com/twmigrate/twmigrate/internal/adapters/outbound/gitinfo"
	"github.com/twmigrate/twmigrate/internal/adapters/outbound/index"
	"github.com/twmigrate/twmigrate/internal/adapters/outbound/state"
	"github.com/twmigrate/twmigrate/internal/adapters/outbound/stylesheet"
	"github.com/twmigrate/twmigrate/internal/application"
	"github.com/twmigrate/twmigrate/internal/domain"
)

// registerTools registers all twmigrate MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string) {
	// 1. twmigrate_propose
	s.AddTool(
		mcplib.NewTool("twmigrate_propose",
			mcplib.WithDescription("Build a migration plan from a violation stream file and return it as JSON"),
			mcplib.WithString("from",
				mcplib.Required(),
				mcplib.Description("Path to the violation stream (JSON array or JSON lines)"),
			),
			mcplib.WithString("strategy", mcplib.Description("conservative, balanced, or aggressive (default: project config)")),
			mcplib.WithBoolean("preview", mcplib.Description("Build the plan without persisting it")),
		),
		handlePropose(projectPath),
	)

	// 2. twmigrate_migrate
	s.AddTool(
		mcplib.NewTool("twmigrate_migrate",
			mcplib.WithDescription("Execute the persisted migration plan and return the run report. Without apply, nothing is written."),
			mcplib.WithBoolean("apply", mcplib.Description("Write changes to disk")),
			mcplib.WithBoolean("continue", mcplib.Description("Resume from the last checkpoint")),
			mcplib.WithString("steps", mcplib.Description("Comma-separated step ids to run")),
			mcplib.WithString("file", mcplib.Description("Run only steps for this file")),
		),
		handleMigrate(projectPath),
	)

	// 3. twmigrate_status
	s.AddTool(
		mcplib.NewTool("twmigrate_status",
			mcplib.WithDescription("Report the current plan, checkpoint validity, and remaining work"),
		),
		handleStatus(projectPath),
	)
}

func handlePropose(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		from, err := request.RequireString("from")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		cfg, err := config.New().Load(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("loading config: %v", err)), nil
		}

		f, err := os.Open(from)
		if err != nil {
			return errorResult(fmt.Sprintf("opening violation stream: %v", err)), nil
		}
		defer f.Close()

		violations, err := application.ParseViolations(f)
		if err != nil {
			return errorResult(fmt.Sprintf("parsing violations: %v", err)), nil
		}

		opts := application.ProposeOptions{
			Strategy:    cfg.Strategy,
			Include:     cfg.Include,
			Exclude:     cfg.Exclude,
			MaxChanges:  cfg.MaxChanges,
			Preview:     request.GetBool("preview", false),
			ProjectPath: projectPath,
		}
		if strategy := request.GetString("strategy", ""); strategy != "" {
			opts.Strategy = domain.Strategy(strategy)
		}

		store := state.New(projectPath, cfg.StateDir)
		plan, err := application.NewProposeService(store, gitinfo.New()).Propose(violations, opts)
		if err != nil {
			return errorResult(fmt.Sprintf("propose failed: %v", err)), nil
		}
		return jsonResult(plan)
	}
}

func handleMigrate(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		cfg, err := config.New().Load(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("loading config: %v", err)), nil
		}

		var stepIDs []string
		if raw := request.GetString("steps", ""); raw != "" {
			for _, id := range strings.Split(raw, ",") {
				stepIDs = append(stepIDs, strings.TrimSpace(id))
			}
		}

		store := state.New(projectPath, cfg.StateDir)
		stylesheetPath := filepath.Join(projectPath, cfg.Stylesheet)
		svc := application.NewMigrateService(
			store,
			store,
			fsio.New(),
			stylesheet.New(stylesheetPath),
			index.New(filepath.Join(projectPath, domain.DefaultIndexPath), stylesheetPath),
			nil, // MCP runs are never interactive
			projectPath,
		)

		report, err := svc.Run(application.MigrateOptions{
			Apply:      request.GetBool("apply", false),
			Continue:   request.GetBool("continue", false),
			Backup:     cfg.BackupEnabled(),
			IncludeIDs: stepIDs,
			File:       request.GetString("file", ""),
		})
		if err != nil {
			return errorResult(fmt.Sprintf("migrate failed: %v", err)), nil
		}
		return jsonResult(report)
	}
}

func handleStatus(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		cfg, err := config.New().Load(projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("loading config: %v", err)), nil
		}

		store := state.New(projectPath, cfg.StateDir)
		status, err := application.NewStatusService(store, store).Status()
		if err != nil {
			return errorResult(fmt.Sprintf("status failed: %v", err)), nil
		}
		return jsonResult(status)
	}
}

func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("marshaling result: %v", err)), nil
	}
	return mcplib.NewToolResultText(string(data)), nil
}

func errorResult(message string) *mcplib.CallToolResult {
	return mcplib.NewToolResultError(message)
}
