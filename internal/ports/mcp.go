package ports

import (
	"context"

	"github.com/xvierd/hookscope/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// MCPQueryProvider provides repository queries and diagnostic extraction to
// the MCP server. This is a driven port (implemented by the services layer).
type MCPQueryProvider interface {
	ListFiles(ctx context.Context, scope domain.FileScope) ([]string, error)
	StagedSubmoduleRemovals(ctx context.Context) ([]domain.Submodule, error)
	BranchesContainingCommit(ctx context.Context, ref string) ([]domain.Branch, error)

	// Evaluate extracts diagnostics from captured tool output with a named
	// or literal pattern and records the outcome under hook.
	Evaluate(ctx context.Context, hook, output string, success bool, pattern string) (*domain.HookOutcome, error)

	// RecentOutcomes returns audited outcomes, newest first.
	RecentOutcomes(ctx context.Context, limit int) ([]*domain.OutcomeRecord, error)
}
