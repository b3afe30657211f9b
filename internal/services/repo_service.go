package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/xvierd/hookscope/internal/domain"
	"github.com/xvierd/hookscope/internal/ports"
)

// RepoService answers structural questions about one repository.
type RepoService struct {
	git      ports.GitQuery
	detector ports.RepositoryDetector
}

// NewRepoService creates a repository service.
func NewRepoService(git ports.GitQuery, detector ports.RepositoryDetector) *RepoService {
	return &RepoService{git: git, detector: detector}
}

// Snapshot is the repository state relevant to pre-commit and pre-push checks.
type Snapshot struct {
	Repository *domain.Repository `json:"repository"`
	Removals   []domain.Submodule `json:"staged_submodule_removals"`
	Ref        string             `json:"ref,omitempty"`
	Branches   []domain.Branch    `json:"branches_containing_ref,omitempty"`
}

// ListFiles expands scope into absolute file paths.
func (s *RepoService) ListFiles(ctx context.Context, scope domain.FileScope) ([]string, error) {
	return s.git.ListFiles(ctx, scope)
}

// StagedSubmoduleRemovals lists submodules whose removal is staged.
func (s *RepoService) StagedSubmoduleRemovals(ctx context.Context) ([]domain.Submodule, error) {
	return s.git.StagedSubmoduleRemovals(ctx)
}

// BranchesContainingCommit lists local branches whose history includes ref.
func (s *RepoService) BranchesContainingCommit(ctx context.Context, ref string) ([]domain.Branch, error) {
	return s.git.BranchesContainingCommit(ctx, ref)
}

// ListBranches lists all local branches.
func (s *RepoService) ListBranches(ctx context.Context) ([]domain.Branch, error) {
	return s.git.ListBranches(ctx)
}

// Snapshot runs the read-only queries concurrently. Branch containment is
// only queried when ref is not empty. The first failure cancels the rest.
func (s *RepoService) Snapshot(ctx context.Context, ref string) (*Snapshot, error) {
	snap := &Snapshot{Ref: ref}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		repo, err := s.detector.Detect(ctx, s.git.Repository().Root)
		if err != nil {
			return fmt.Errorf("failed to read HEAD: %w", err)
		}
		snap.Repository = repo
		return nil
	})
	g.Go(func() error {
		removals, err := s.git.StagedSubmoduleRemovals(ctx)
		if err != nil {
			return err
		}
		snap.Removals = removals
		return nil
	})
	if ref != "" {
		g.Go(func() error {
			branches, err := s.git.BranchesContainingCommit(ctx, ref)
			if err != nil {
				return err
			}
			snap.Branches = branches
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}
