package services

import (
	"context"

	"github.com/xvierd/hookscope/internal/domain"
	"github.com/xvierd/hookscope/internal/ports"
)

// QueryService implements the MCPQueryProvider interface.
type QueryService struct {
	repo  *RepoService
	hooks *HookService
}

// Ensure QueryService implements ports.MCPQueryProvider.
var _ ports.MCPQueryProvider = (*QueryService)(nil)

// NewQueryService creates a query service.
func NewQueryService(repo *RepoService, hooks *HookService) *QueryService {
	return &QueryService{repo: repo, hooks: hooks}
}

// ListFiles implements ports.MCPQueryProvider.
func (s *QueryService) ListFiles(ctx context.Context, scope domain.FileScope) ([]string, error) {
	return s.repo.ListFiles(ctx, scope)
}

// StagedSubmoduleRemovals implements ports.MCPQueryProvider.
func (s *QueryService) StagedSubmoduleRemovals(ctx context.Context) ([]domain.Submodule, error) {
	return s.repo.StagedSubmoduleRemovals(ctx)
}

// BranchesContainingCommit implements ports.MCPQueryProvider.
func (s *QueryService) BranchesContainingCommit(ctx context.Context, ref string) ([]domain.Branch, error) {
	return s.repo.BranchesContainingCommit(ctx, ref)
}

// Evaluate implements ports.MCPQueryProvider.
func (s *QueryService) Evaluate(ctx context.Context, hook, output string, success bool, pattern string) (*domain.HookOutcome, error) {
	return s.hooks.Evaluate(ctx, hook, output, success, pattern)
}

// RecentOutcomes implements ports.MCPQueryProvider.
func (s *QueryService) RecentOutcomes(ctx context.Context, limit int) ([]*domain.OutcomeRecord, error) {
	return s.hooks.RecentOutcomes(ctx, limit)
}
