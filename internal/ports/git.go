package ports

import (
	"context"

	"github.com/xvierd/hookscope/internal/domain"
)

// GitQuery defines the read-only repository queries.
// This is a driven port (implemented by adapters).
type GitQuery interface {
	// Repository returns the handle the queries are bound to.
	Repository() *domain.Repository

	// ListFiles expands a scope into absolute file paths.
	ListFiles(ctx context.Context, scope domain.FileScope) ([]string, error)

	// StagedSubmoduleRemovals lists submodules whose removal is staged.
	StagedSubmoduleRemovals(ctx context.Context) ([]domain.Submodule, error)

	// BranchesContainingCommit lists local branches whose history includes ref.
	BranchesContainingCommit(ctx context.Context, ref string) ([]domain.Branch, error)

	// ListBranches lists all local branches.
	ListBranches(ctx context.Context) ([]domain.Branch, error)
}

// RepositoryDetector locates repositories.
// This is a driven port (implemented by adapters).
type RepositoryDetector interface {
	// Detect finds the repository containing workingDir and reads HEAD.
	Detect(ctx context.Context, workingDir string) (*domain.Repository, error)
}
