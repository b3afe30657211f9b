// Package git implements the repository queries on top of the git binary,
// using go-git for repository discovery and .gitmodules decoding.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/xvierd/hookscope/internal/domain"
	"github.com/xvierd/hookscope/internal/ports"
)

// Detector implements the ports.RepositoryDetector interface using go-git.
type Detector struct{}

// NewDetector creates a new repository detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Ensure Detector implements ports.RepositoryDetector.
var _ ports.RepositoryDetector = (*Detector)(nil)

// Detect finds the repository containing workingDir and reads its HEAD.
func (d *Detector) Detect(ctx context.Context, workingDir string) (*domain.Repository, error) {
	if workingDir == "" {
		var err error
		workingDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}
	workingDir, err := filepath.Abs(workingDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	// Find the repository by traversing up the directory tree
	root, err := findGitRepo(workingDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotRepository, workingDir)
	}

	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{EnableDotGitCommonDir: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}

	info := &domain.Repository{Root: root}

	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		// Unborn branch: HEAD is symbolic but points at nothing yet
		if sym, symErr := repo.Reference(plumbing.HEAD, false); symErr == nil && sym.Type() == plumbing.SymbolicReference {
			info.HeadBranch = sym.Target().Short()
		}
		return info, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	info.HeadCommit = head.Hash().String()
	if head.Name().IsBranch() {
		info.HeadBranch = head.Name().Short()
	} else {
		info.Detached = true
	}
	return info, nil
}

// findGitRepo traverses up the directory tree to find a .git directory.
func findGitRepo(startPath string) (string, error) {
	currentPath := startPath

	for {
		gitPath := filepath.Join(currentPath, ".git")
		info, err := os.Stat(gitPath)
		if err == nil && info.IsDir() {
			return currentPath, nil
		}

		// Submodules and linked worktrees use a file containing a gitdir reference
		if err == nil && !info.IsDir() {
			content, err := os.ReadFile(gitPath)
			if err == nil && strings.HasPrefix(string(content), "gitdir: ") {
				return currentPath, nil
			}
		}

		parent := filepath.Dir(currentPath)
		if parent == currentPath {
			break
		}
		currentPath = parent
	}

	return "", fmt.Errorf("no .git directory found")
}

// ShortCommit returns a shortened commit hash.
func ShortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
