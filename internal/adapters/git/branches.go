package git

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/xvierd/hookscope/internal/domain"
)

const branchNamespace = "refs/heads/"

// BranchesContainingCommit lists the local branches whose history includes
// ref. Remote-tracking refs are never considered. A commit reachable from no
// branch, such as one made on a detached HEAD, yields an empty result.
func (e *Engine) BranchesContainingCommit(ctx context.Context, ref string) ([]domain.Branch, error) {
	if err := validateRef(ref); err != nil {
		return nil, err
	}

	sha, ok, err := e.resolveCommit(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &domain.QueryError{
			Args:     []string{"rev-parse", "--verify", ref},
			Dir:      e.repo.Root,
			ExitCode: 1,
			Err:      fmt.Errorf("%w: %q", domain.ErrInvalidRef, ref),
		}
	}

	out, err := e.git(ctx, "for-each-ref", "--format=%(refname)", "--contains", sha, branchNamespace)
	if err != nil {
		return nil, err
	}
	return parseBranches(out), nil
}

// ListBranches lists every local branch.
func (e *Engine) ListBranches(ctx context.Context) ([]domain.Branch, error) {
	out, err := e.git(ctx, "for-each-ref", "--format=%(refname)", branchNamespace)
	if err != nil {
		return nil, err
	}
	return parseBranches(out), nil
}

func parseBranches(out string) []domain.Branch {
	seen := make(map[domain.Branch]struct{})
	branches := []domain.Branch{}
	for _, line := range strings.Split(out, "\n") {
		name := plumbing.ReferenceName(strings.TrimSpace(line))
		if !name.IsBranch() {
			continue
		}
		b := domain.Branch(name.Short())
		if _, dup := seen[b]; dup {
			continue
		}
		seen[b] = struct{}{}
		branches = append(branches, b)
	}
	sort.Slice(branches, func(i, j int) bool { return branches[i] < branches[j] })
	return branches
}
