// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/hookscope/internal/domain"
	"github.com/xvierd/hookscope/internal/ports"
)

// defaultOutcomeLimit is used when recent_outcomes is called without a limit.
const defaultOutcomeLimit = 20

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server   *server.MCPServer
	provider ports.MCPQueryProvider
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(provider ports.MCPQueryProvider, version string) *Server {
	s := &Server{
		provider: provider,
	}

	s.server = server.NewMCPServer(
		"hookscope",
		version,
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	// Tool: list_files
	listFilesTool := mcp.NewTool(
		"list_files",
		mcp.WithDescription("List the files a hook should check. Directories expand to tracked files and never descend into submodules"),
		mcp.WithArray(
			"paths",
			mcp.Description("File or directory paths relative to the repository root; empty means the whole repository"),
			mcp.WithStringItems(),
		),
		mcp.WithBoolean(
			"include_untracked",
			mcp.Description("Also list untracked files that are not ignored"),
		),
		mcp.WithString(
			"ref",
			mcp.Description("List the tree of this commit instead of the index"),
		),
	)
	s.server.AddTool(listFilesTool, s.handleListFiles)

	// Tool: staged_submodule_removals
	s.server.AddTool(
		mcp.NewTool(
			"staged_submodule_removals",
			mcp.WithDescription("List submodules whose removal is staged for the next commit, with the location of their content"),
		),
		s.handleStagedSubmoduleRemovals,
	)

	// Tool: branches_containing_commit
	branchesTool := mcp.NewTool(
		"branches_containing_commit",
		mcp.WithDescription("List local branches whose history contains a commit"),
		mcp.WithString(
			"ref",
			mcp.Required(),
			mcp.Description("Commit-ish to look for, e.g. HEAD~1 or a sha"),
		),
	)
	s.server.AddTool(branchesTool, s.handleBranchesContainingCommit)

	// Tool: extract_diagnostics
	extractTool := mcp.NewTool(
		"extract_diagnostics",
		mcp.WithDescription("Extract file:line diagnostics from tool output and classify the hook result"),
		mcp.WithString(
			"output",
			mcp.Required(),
			mcp.Description("Captured tool output"),
		),
		mcp.WithBoolean(
			"success",
			mcp.Required(),
			mcp.Description("Whether the tool exited with status zero"),
		),
		mcp.WithString(
			"pattern",
			mcp.Description("Configured pattern name or a regular expression with file and line groups (default: xmllint)"),
		),
		mcp.WithString(
			"hook",
			mcp.Description("Hook name the outcome is recorded under"),
		),
	)
	s.server.AddTool(extractTool, s.handleExtractDiagnostics)

	// Tool: recent_outcomes
	recentTool := mcp.NewTool(
		"recent_outcomes",
		mcp.WithDescription("List recently recorded hook outcomes, newest first"),
		mcp.WithNumber(
			"limit",
			mcp.Description("Maximum number of outcomes (default: 20)"),
		),
	)
	s.server.AddTool(recentTool, s.handleRecentOutcomes)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

// handleListFiles handles the list_files tool.
func (s *Server) handleListFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope := domain.FileScope{
		Paths:            request.GetStringSlice("paths", nil),
		IncludeUntracked: request.GetBool("include_untracked", false),
		Ref:              request.GetString("ref", ""),
	}

	files, err := s.provider.ListFiles(ctx, scope)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list files: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"files": files,
		"count": len(files),
	})
}

// handleStagedSubmoduleRemovals handles the staged_submodule_removals tool.
func (s *Server) handleStagedSubmoduleRemovals(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	removals, err := s.provider.StagedSubmoduleRemovals(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list submodule removals: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"submodules": removals,
	})
}

// handleBranchesContainingCommit handles the branches_containing_commit tool.
func (s *Server) handleBranchesContainingCommit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("ref")
	if err != nil {
		return mcp.NewToolResultError("ref is required: " + err.Error()), nil
	}

	branches, err := s.provider.BranchesContainingCommit(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list branches: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"ref":      ref,
		"branches": branches,
	})
}

// handleExtractDiagnostics handles the extract_diagnostics tool.
func (s *Server) handleExtractDiagnostics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	output, err := request.RequireString("output")
	if err != nil {
		return mcp.NewToolResultError("output is required: " + err.Error()), nil
	}
	success, err := request.RequireBool("success")
	if err != nil {
		return mcp.NewToolResultError("success is required: " + err.Error()), nil
	}

	outcome, err := s.provider.Evaluate(
		ctx,
		request.GetString("hook", "mcp"),
		output,
		success,
		request.GetString("pattern", ""),
	)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to extract diagnostics: %v", err)), nil
	}

	diags := make([]map[string]interface{}, 0, len(outcome.Diagnostics))
	for _, d := range outcome.Diagnostics {
		entry := map[string]interface{}{
			"file":     d.File,
			"line":     d.Line,
			"severity": string(d.Severity),
			"message":  d.Message,
		}
		if d.Column != nil {
			entry["column"] = *d.Column
		}
		diags = append(diags, entry)
	}

	return jsonResult(map[string]interface{}{
		"status":      string(outcome.Status),
		"passed":      outcome.Passed(),
		"diagnostics": diags,
	})
}

// handleRecentOutcomes handles the recent_outcomes tool.
func (s *Server) handleRecentOutcomes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(request.GetFloat("limit", defaultOutcomeLimit))
	if limit <= 0 {
		limit = defaultOutcomeLimit
	}

	records, err := s.provider.RecentOutcomes(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load outcomes: %v", err)), nil
	}

	var result []map[string]interface{}
	for _, rec := range records {
		result = append(result, map[string]interface{}{
			"id":          rec.ID,
			"hook":        rec.Hook,
			"status":      string(rec.Outcome.Status),
			"diagnostics": len(rec.Outcome.Diagnostics),
			"recorded_at": rec.RecordedAt.Format("2006-01-02T15:04:05"),
		})
	}

	return jsonResult(map[string]interface{}{
		"outcomes": result,
		"count":    len(result),
	})
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
