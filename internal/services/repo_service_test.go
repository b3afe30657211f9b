package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/hookscope/internal/domain"
)

type fakeGit struct {
	repo      *domain.Repository
	files     []string
	removals  []domain.Submodule
	branches  []domain.Branch
	err       error
	branchErr error
	lastRef   string
}

func (f *fakeGit) Repository() *domain.Repository { return f.repo }

func (f *fakeGit) ListFiles(ctx context.Context, scope domain.FileScope) ([]string, error) {
	return f.files, f.err
}

func (f *fakeGit) StagedSubmoduleRemovals(ctx context.Context) ([]domain.Submodule, error) {
	return f.removals, f.err
}

func (f *fakeGit) BranchesContainingCommit(ctx context.Context, ref string) ([]domain.Branch, error) {
	f.lastRef = ref
	return f.branches, f.branchErr
}

func (f *fakeGit) ListBranches(ctx context.Context) ([]domain.Branch, error) {
	return f.branches, f.err
}

type fakeDetector struct {
	repo *domain.Repository
	err  error
}

func (f *fakeDetector) Detect(ctx context.Context, workingDir string) (*domain.Repository, error) {
	return f.repo, f.err
}

func TestRepoService_Snapshot(t *testing.T) {
	ctx := context.Background()
	repo := &domain.Repository{Root: "/repo", HeadBranch: "master", HeadCommit: "abc"}
	removal := domain.Submodule{Name: "sub", Path: "sub", URL: "/repo/.git/modules/sub", RegisteredURL: "../sub", Resolved: true}

	t.Run("collects all queries", func(t *testing.T) {
		git := &fakeGit{
			repo:     repo,
			removals: []domain.Submodule{removal},
			branches: []domain.Branch{"master", "topic"},
		}
		svc := NewRepoService(git, &fakeDetector{repo: repo})

		snap, err := svc.Snapshot(ctx, "HEAD~1")
		require.NoError(t, err)
		assert.Equal(t, repo, snap.Repository)
		assert.Equal(t, []domain.Submodule{removal}, snap.Removals)
		assert.Equal(t, []domain.Branch{"master", "topic"}, snap.Branches)
		assert.Equal(t, "HEAD~1", git.lastRef)
	})

	t.Run("skips containment without ref", func(t *testing.T) {
		git := &fakeGit{repo: repo, removals: []domain.Submodule{}, branchErr: errors.New("unexpected")}
		svc := NewRepoService(git, &fakeDetector{repo: repo})

		snap, err := svc.Snapshot(ctx, "")
		require.NoError(t, err)
		assert.Nil(t, snap.Branches)
		assert.Empty(t, git.lastRef)
	})

	t.Run("first error is returned", func(t *testing.T) {
		qe := &domain.QueryError{Args: []string{"rev-parse"}, ExitCode: 128, Stderr: "fatal: bad revision"}
		git := &fakeGit{repo: repo, branchErr: qe}
		svc := NewRepoService(git, &fakeDetector{repo: repo})

		_, err := svc.Snapshot(ctx, "nope")
		var got *domain.QueryError
		require.True(t, errors.As(err, &got))
		assert.Equal(t, "fatal: bad revision", got.Stderr)
	})

	t.Run("detector failure", func(t *testing.T) {
		git := &fakeGit{repo: repo}
		svc := NewRepoService(git, &fakeDetector{err: domain.ErrNotRepository})

		_, err := svc.Snapshot(ctx, "")
		assert.ErrorIs(t, err, domain.ErrNotRepository)
	})
}

func TestQueryService(t *testing.T) {
	ctx := context.Background()
	git := &fakeGit{
		repo:     &domain.Repository{Root: "/repo"},
		files:    []string{"/repo/a.xml"},
		removals: []domain.Submodule{},
		branches: []domain.Branch{"master"},
	}
	hooks := NewHookService(&fakeRunner{}, setupTestStorage(t), "/repo", HookConfig{}, nil)
	svc := NewQueryService(NewRepoService(git, &fakeDetector{}), hooks)

	files, err := svc.ListFiles(ctx, domain.FileScope{})
	require.NoError(t, err)
	assert.Equal(t, []string{"/repo/a.xml"}, files)

	removals, err := svc.StagedSubmoduleRemovals(ctx)
	require.NoError(t, err)
	assert.Empty(t, removals)

	branches, err := svc.BranchesContainingCommit(ctx, "HEAD")
	require.NoError(t, err)
	assert.Equal(t, []domain.Branch{"master"}, branches)

	outcome, err := svc.Evaluate(ctx, "XmlLint", lintOutput, false, "xmllint")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFail, outcome.Status)

	recent, err := svc.RecentOutcomes(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "XmlLint", recent[0].Hook)
}
